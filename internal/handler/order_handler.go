package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"ordersync/internal/config"
	"ordersync/internal/middleware"
	"ordersync/internal/repository"
	"ordersync/internal/usecase"
	"ordersync/internal/validator"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderAdminUsecase
}

func NewOrderHandler(uc *usecase.OrderAdminUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 空文字は「タグを全部外す」
type TagsReplaceRequest struct {
	Tags *string `json:"tags" validate:"required"`
}

type TagAddRequest struct {
	Tag string `json:"tag" validate:"single_tag"`
}

type TagSearchResponse struct {
	Tags []string `json:"tags"`
}

// 埋め込み管理画面用 /app
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repository.ShopSessionRepository) {
	g := e.Group("/app")
	g.Use(middleware.SessionToken(cfg))
	g.Use(middleware.ActiveSessionGuard(sessions))

	g.GET("/orders", h.list)
	g.GET("/orders/export.csv", h.exportCSV)
	g.GET("/orders/:id", h.detail)
	g.PUT("/orders/:id/tags", h.replaceTags)
	g.POST("/orders/:id/tags", h.addTag)
	g.DELETE("/orders/:id/tags/:tag", h.removeTag)
	g.GET("/orders/:id/tags", h.searchTags)
	g.GET("/orders/:id/audit", h.auditTrail)
}

//新しい順
func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) exportCSV(c echo.Context) error {
	//途中で失敗したら500を返せるように一度バッファへ書く
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(c.Request().Context(), &buf); err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *OrderHandler) detail(c echo.Context) error {
	o, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) searchTags(c echo.Context) error {
	tags, err := h.uc.SearchTags(c.Request().Context(), c.Param("id"), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, TagSearchResponse{Tags: tags})
}

// タグ編集の履歴（limit省略時は50件）
func (h *OrderHandler) auditTrail(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	logs, err := h.uc.AuditTrail(c.Request().Context(), actor, c.Param("id"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *OrderHandler) replaceTags(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req TagsReplaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + fieldName(err, "tags")})
	}

	o, err := h.uc.ReplaceTags(c.Request().Context(), actor, c.Param("id"), *req.Tags)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) addTag(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req TagAddRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + fieldName(err, "tag")})
	}

	o, err := h.uc.AddTag(c.Request().Context(), actor, c.Param("id"), req.Tag)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) removeTag(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	o, err := h.uc.RemoveTag(c.Request().Context(), actor, c.Param("id"), c.Param("tag"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func fieldName(err error, fallback string) string {
	switch validator.FirstField(err) {
	case "":
		return fallback
	case "Tags":
		return "tags"
	case "Tag":
		return "tag"
	default:
		return fallback
	}
}
