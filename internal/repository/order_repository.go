package repository

import (
	"context"

	"ordersync/internal/domain/model"
)

// OrderPatch はupsertの入力。nilのフィールドは「渡されていない」扱いで、
// 既存の値を上書きしない。
type OrderPatch struct {
	OrderID          string
	OrderNumber      *string
	TotalPrice       *string
	PaymentGateway   *string
	CustomerEmail    *string
	CustomerFullName *string
	CustomerAddress  *string
	Tags             *string
}

type OrderRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (model.Order, error)
	FindByID(ctx context.Context, id int64) (model.Order, error)

	//なければ作成、あれば渡されたフィールドだけ更新（同じ内容で何度呼んでも同じ結果）
	Upsert(ctx context.Context, patch OrderPatch) (model.Order, error)

	//新しい順（id desc）
	ListAll(ctx context.Context) ([]model.Order, error)

	//存在しなければ false, nil
	Delete(ctx context.Context, orderID string) (bool, error)
}
