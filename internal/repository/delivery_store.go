package repository

import (
	"context"
	"time"
)

// Webhook配信ID（X-Shopify-Webhook-Id）の処理済み記録。
type DeliveryStore interface {
	// 初めてなら true。既に記録済みなら false。
	MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)
	// 記録を消す。処理に失敗した配信を再送で受け直せるようにする。
	Forget(ctx context.Context, deliveryID string) error
}
