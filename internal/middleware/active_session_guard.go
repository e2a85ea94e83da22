package middleware

import (
	"net/http"

	"ordersync/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンが正しくても、アンインストール済みのショップは通さない。
func ActiveSessionGuard(sessions repository.ShopSessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//SessionTokenが入れたshopを取得する
			shop, ok := c.Get(CtxShopKey).(string)
			if !ok || shop == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBに有効なセッションがあるか
			if _, err := sessions.FindActiveByShop(c.Request().Context(), shop); err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}
