package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ordersync/internal/logger"
	repo "ordersync/internal/repository"

	"go.uber.org/zap"
)

// 購読している注文トピック
const (
	TopicOrdersCreate  = "ORDERS_CREATE"
	TopicOrdersUpdated = "ORDERS_UPDATED"
)

// NormalizeTopic は "orders/create" と "ORDERS_CREATE" を同じにする
func NormalizeTopic(topic string) string {
	t := strings.ToUpper(strings.TrimSpace(topic))
	return strings.ReplaceAll(t, "/", "_")
}

// 認証済みのWebhook配信
type WebhookDelivery struct {
	Topic      string
	Shop       string
	DeliveryID string
	Body       []byte
}

type WebhookOutcome string

const (
	WebhookProcessed        WebhookOutcome = "processed"
	WebhookIgnoredTopic     WebhookOutcome = "ignored_topic"
	WebhookSkippedNoSession WebhookOutcome = "skipped_no_session"
	WebhookSkippedDuplicate WebhookOutcome = "skipped_duplicate"
	WebhookFailed           WebhookOutcome = "failed"
)

type WebhookUsecase struct {
	sync       *OrderSyncUsecase
	sessions   repo.ShopSessionRepository
	deliveries repo.DeliveryStore
	ttl        time.Duration
	log        *zap.Logger
}

func NewWebhookUsecase(
	sync *OrderSyncUsecase,
	sessions repo.ShopSessionRepository,
	deliveries repo.DeliveryStore,
	ttl time.Duration,
	log *zap.Logger,
) *WebhookUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookUsecase{
		sync:       sync,
		sessions:   sessions,
		deliveries: deliveries,
		ttl:        ttl,
		log:        log.Named("webhook"),
	}
}

// Handle は1件の配信を処理する。
// 返すエラーはログ用で、Shopifyへの応答は常に成功でよい（再送ループを避ける）。
func (u *WebhookUsecase) Handle(ctx context.Context, d WebhookDelivery) (WebhookOutcome, error) {
	topic := NormalizeTopic(d.Topic)
	l := logger.FromContext(ctx, u.log).With(
		zap.String("topic", topic),
		zap.String("shop", d.Shop),
		zap.String("delivery_id", d.DeliveryID),
	)
	l.Info("webhook received")

	switch topic {
	case TopicOrdersCreate, TopicOrdersUpdated:
	default:
		l.Info("unsubscribed or invalid topic")
		return WebhookIgnoredTopic, nil
	}

	//セッションがないショップは処理しない
	if _, err := u.sessions.FindActiveByShop(ctx, d.Shop); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("no active session for shop, skipping")
			return WebhookSkippedNoSession, nil
		}
		l.Error("session lookup failed", zap.Error(err))
		return WebhookFailed, err
	}

	marked := false
	if d.DeliveryID != "" && u.deliveries != nil {
		isNew, err := u.deliveries.MarkProcessed(ctx, d.DeliveryID, u.ttl)
		switch {
		case err != nil:
			//重複チェックが落ちても処理は続ける（upsertは冪等）
			l.Warn("delivery dedupe unavailable, processing anyway", zap.Error(err))
		case !isNew:
			l.Info("duplicate delivery, skipping")
			return WebhookSkippedDuplicate, nil
		default:
			marked = true
		}
	}

	ev, err := DecodeWebhookOrder(d.Body)
	if err != nil {
		l.Error("invalid order payload", zap.Error(err))
		u.forget(ctx, l, d.DeliveryID, marked)
		return WebhookFailed, &SyncError{Kind: SyncErrorValidation, Err: err}
	}

	o, err := u.sync.Sync(ctx, ev)
	if err != nil {
		//再送されたら受け直せるように記録を消す
		u.forget(ctx, l, d.DeliveryID, marked)
		return WebhookFailed, err
	}

	l.Info("order saved", zap.String("order_id", o.OrderID), zap.Int64("id", o.ID))
	return WebhookProcessed, nil
}

func (u *WebhookUsecase) forget(ctx context.Context, l *zap.Logger, deliveryID string, marked bool) {
	if !marked {
		return
	}
	if err := u.deliveries.Forget(ctx, deliveryID); err != nil {
		l.Warn("failed to forget delivery", zap.Error(err))
	}
}
