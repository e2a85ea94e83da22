package handler

import (
	"net/http"

	"ordersync/internal/middleware"
	"ordersync/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// SessionTokenが入れたショップとスタッフID
func getActorFromContext(c echo.Context) (usecase.Actor, bool) {
	shop, _ := c.Get(middleware.CtxShopKey).(string)
	userID, _ := c.Get(middleware.CtxUserIDKey).(string)
	if shop == "" || userID == "" {
		return usecase.Actor{}, false
	}
	return usecase.Actor{Shop: shop, UserID: userID}, true
}
