package repository

import (
	"context"

	"ordersync/internal/domain/model"
)

type ShopSessionRepository interface {
	//有効なセッションがなければ ErrNotFound
	FindActiveByShop(ctx context.Context, shop string) (model.ShopSession, error)
	//ショップ単位で作成/更新
	Save(ctx context.Context, s model.ShopSession) error
	Deactivate(ctx context.Context, shop string) error
}
