package usecase

import (
	"context"
	"errors"
	"fmt"

	"ordersync/internal/domain/model"
	"ordersync/internal/logger"
	repo "ordersync/internal/repository"

	"go.uber.org/zap"
)

type SyncErrorKind string

const (
	SyncErrorValidation SyncErrorKind = "validation"
	SyncErrorStorage    SyncErrorKind = "storage"
)

// SyncError は同期失敗の結果。握りつぶすか返すかは呼び出し側が決める。
type SyncError struct {
	Kind    SyncErrorKind
	OrderID string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync order %q (%s): %v", e.OrderID, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func AsSyncError(err error) (*SyncError, bool) {
	var se *SyncError
	ok := errors.As(err, &se)
	return se, ok
}

// OrderSyncUsecase は入力イベントを正規化してupsertする。
type OrderSyncUsecase struct {
	orders repo.OrderRepository
	log    *zap.Logger
}

func NewOrderSyncUsecase(orders repo.OrderRepository, log *zap.Logger) *OrderSyncUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderSyncUsecase{orders: orders, log: log.Named("order_sync")}
}

// Sync はイベントを注文に反映する。失敗はログに残したうえで *SyncError を返す。
func (u *OrderSyncUsecase) Sync(ctx context.Context, ev InboundEvent) (model.Order, error) {
	return u.syncWith(ctx, u.orders, ev)
}

// syncWith はトランザクション内のrepoでも使えるように分けている
func (u *OrderSyncUsecase) syncWith(ctx context.Context, orders repo.OrderRepository, ev InboundEvent) (model.Order, error) {
	p := ev.patch()
	l := logger.FromContext(ctx, u.log).With(
		zap.String("order_id", p.OrderID),
		zap.String("source", ev.source()),
	)

	o, err := orders.Upsert(ctx, p)
	if err != nil {
		se := &SyncError{Kind: SyncErrorStorage, OrderID: p.OrderID, Err: err}
		if errors.Is(err, repo.ErrValidation) {
			se.Kind = SyncErrorValidation
		}
		l.Error("order sync failed", zap.String("kind", string(se.Kind)), zap.Error(err))
		return model.Order{}, se
	}

	l.Debug("order synced", zap.Int64("id", o.ID))
	return o, nil
}
