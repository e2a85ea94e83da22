package handler

import (
	"net/http"

	"ordersync/internal/config"
	"ordersync/internal/logger"
	"ordersync/internal/middleware"
	"ordersync/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	uc  *usecase.WebhookUsecase
	log *zap.Logger
}

func NewWebhookHandler(uc *usecase.WebhookUsecase, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{uc: uc, log: log}
}

type WebhookResponse struct {
	Outcome string `json:"outcome"`
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/webhooks", h.receive, middleware.WebhookHMAC(cfg.ShopifyAPISecret))
}

// 認証が通った配信には常に200を返す（失敗はログだけ）
func (h *WebhookHandler) receive(c echo.Context) error {
	req := c.Request()
	body, _ := c.Get(middleware.CtxWebhookBodyKey).([]byte)

	outcome, err := h.uc.Handle(req.Context(), usecase.WebhookDelivery{
		Topic:      req.Header.Get(middleware.HeaderShopifyTopic),
		Shop:       req.Header.Get(middleware.HeaderShopifyShop),
		DeliveryID: req.Header.Get(middleware.HeaderShopifyWebhookID),
		Body:       body,
	})
	if err != nil {
		logger.FromContext(req.Context(), h.log).Warn("webhook not applied",
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusOK, WebhookResponse{Outcome: string(outcome)})
}
