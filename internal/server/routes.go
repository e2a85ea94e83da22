package server

import (
	"ordersync/internal/config"
	"ordersync/internal/handler"
	"ordersync/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Orders   *handler.OrderHandler
	Webhooks *handler.WebhookHandler
	Health   *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repository.ShopSessionRepository, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Webhooks.RegisterRoutes(e, cfg)
	h.Orders.RegisterRoutes(e, cfg, sessions)
}
