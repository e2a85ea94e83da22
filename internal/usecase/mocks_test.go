package usecase_test

import (
	"context"
	"time"

	"ordersync/internal/domain/model"
	repo "ordersync/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByOrderID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, id int64) (model.Order, error) {
	panic("not used in usecase tests")
}

func (m *OrderRepoMock) Upsert(ctx context.Context, patch repo.OrderPatch) (model.Order, error) {
	args := m.Called(ctx, patch)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID string) (bool, error) {
	panic("not used in usecase tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) FindActiveByShop(ctx context.Context, shop string) (model.ShopSession, error) {
	args := m.Called(ctx, shop)
	s, _ := args.Get(0).(model.ShopSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Save(ctx context.Context, s model.ShopSession) error {
	panic("not used in usecase tests")
}

func (m *SessionRepoMock) Deactivate(ctx context.Context, shop string) error {
	panic("not used in usecase tests")
}

type DeliveryStoreMock struct{ mock.Mock }

func (m *DeliveryStoreMock) MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, deliveryID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *DeliveryStoreMock) Forget(ctx context.Context, deliveryID string) error {
	return m.Called(ctx, deliveryID).Error(0)
}

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

func strPtr(s string) *string { return &s }
