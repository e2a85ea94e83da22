package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ordersync/internal/config"
	"ordersync/internal/domain/model"
	"ordersync/internal/logger"
	"ordersync/internal/middleware"
	repo "ordersync/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	apiKey    = "test-api-key"
	apiSecret = "test-api-secret"
	shop      = "demo.myshopify.com"
)

var testCfg = config.Config{ShopifyAPIKey: apiKey, ShopifyAPISecret: apiSecret}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":  "https://" + shop + "/admin",
		"dest": "https://" + shop,
		"aud":  apiKey,
		"sub":  "42",
		"exp":  now.Add(time.Minute).Unix(),
		"nbf":  now.Add(-time.Minute).Unix(),
	}
}

// 通ったらcontextの値を返すだけのハンドラ
func echoCtx(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"shop":    c.Get(middleware.CtxShopKey),
		"user_id": c.Get(middleware.CtxUserIDKey),
	})
}

func doGet(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/app/orders", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =====================
// SessionToken
// =====================

func TestSessionToken_OK(t *testing.T) {
	e := echo.New()
	e.GET("/app/orders", echoCtx, middleware.SessionToken(testCfg))

	rec := doGet(e, "Bearer "+sign(t, apiSecret, validClaims()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shop":"demo.myshopify.com","user_id":"42"}`, rec.Body.String())
}

func TestSessionToken_Rejects(t *testing.T) {
	cases := map[string]func(t *testing.T) string{
		"missing header": func(t *testing.T) string { return "" },
		"not bearer": func(t *testing.T) string {
			return "Basic " + sign(t, apiSecret, validClaims())
		},
		"wrong secret": func(t *testing.T) string {
			return "Bearer " + sign(t, "other", validClaims())
		},
		"wrong audience": func(t *testing.T) string {
			c := validClaims()
			c["aud"] = "someone-else"
			return "Bearer " + sign(t, apiSecret, c)
		},
		"expired": func(t *testing.T) string {
			c := validClaims()
			c["exp"] = time.Now().Add(-time.Minute).Unix()
			return "Bearer " + sign(t, apiSecret, c)
		},
		"dest not https": func(t *testing.T) string {
			c := validClaims()
			c["dest"] = "http://" + shop
			return "Bearer " + sign(t, apiSecret, c)
		},
		"no sub": func(t *testing.T) string {
			c := validClaims()
			delete(c, "sub")
			return "Bearer " + sign(t, apiSecret, c)
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.GET("/app/orders", echoCtx, middleware.SessionToken(testCfg))

			rec := doGet(e, build(t))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		})
	}
}

func TestSessionToken_RejectsOtherAlgorithms(t *testing.T) {
	e := echo.New()
	e.GET("/app/orders", echoCtx, middleware.SessionToken(testCfg))

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims()).SignedString([]byte(apiSecret))
	require.NoError(t, err)

	rec := doGet(e, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// ActiveSessionGuard
// =====================

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) FindActiveByShop(ctx context.Context, shop string) (model.ShopSession, error) {
	args := m.Called(ctx, shop)
	s, _ := args.Get(0).(model.ShopSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Save(ctx context.Context, s model.ShopSession) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SessionRepoMock) Deactivate(ctx context.Context, shop string) error {
	return m.Called(ctx, shop).Error(0)
}

func TestActiveSessionGuard(t *testing.T) {
	sessions := new(SessionRepoMock)
	sessions.On("FindActiveByShop", mock.Anything, shop).Return(model.ShopSession{Shop: shop, IsActive: true}, nil).Once()
	sessions.On("FindActiveByShop", mock.Anything, shop).Return(model.ShopSession{}, repo.ErrNotFound).Once()

	e := echo.New()
	e.GET("/app/orders", echoCtx, middleware.SessionToken(testCfg), middleware.ActiveSessionGuard(sessions))
	authz := "Bearer " + sign(t, apiSecret, validClaims())

	assert.Equal(t, http.StatusOK, doGet(e, authz).Code)
	//アンインストール後は401
	assert.Equal(t, http.StatusUnauthorized, doGet(e, authz).Code)
	sessions.AssertExpectations(t)
}

func TestActiveSessionGuard_WithoutShopInContext(t *testing.T) {
	sessions := new(SessionRepoMock)
	e := echo.New()
	e.GET("/app/orders", echoCtx, middleware.ActiveSessionGuard(sessions))

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "").Code)
	sessions.AssertNotCalled(t, "FindActiveByShop", mock.Anything, mock.Anything)
}

// =====================
// WebhookHMAC
// =====================

func postWebhook(e *echo.Echo, body string, hmacHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(body))
	if hmacHeader != "" {
		req.Header.Set(middleware.HeaderShopifyHmac, hmacHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHMAC(t *testing.T) {
	body := `{"id":1001}`

	e := echo.New()
	e.POST("/webhooks", func(c echo.Context) error {
		b, _ := c.Get(middleware.CtxWebhookBodyKey).([]byte)
		return c.String(http.StatusOK, string(b))
	}, middleware.WebhookHMAC(apiSecret))

	rec := postWebhook(e, body, middleware.SignWebhookBody(apiSecret, []byte(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, postWebhook(e, body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, postWebhook(e, body, "not-base64!").Code)
	assert.Equal(t, http.StatusUnauthorized, postWebhook(e, body, middleware.SignWebhookBody("other", []byte(body))).Code)
	//本文の改ざん
	assert.Equal(t, http.StatusUnauthorized, postWebhook(e, `{"id":1002}`, middleware.SignWebhookBody(apiSecret, []byte(body))).Code)
}

func TestWebhookHMAC_BodyTooLarge(t *testing.T) {
	e := echo.New()
	e.POST("/webhooks", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.WebhookHMAC(apiSecret))

	//署名は正しくても上限を超えたら413
	big := `{"note":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := postWebhook(e, big, middleware.SignWebhookBody(apiSecret, []byte(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"body too large"}`, rec.Body.String())

	//ちょうど上限は通る
	exact := strings.Repeat(" ", 2<<20)
	rec = postWebhook(e, exact, middleware.SignWebhookBody(apiSecret, []byte(exact)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =====================
// RequestLogger
// =====================

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	var seenID string
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		seenID = logger.GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	}, middleware.RequestLogger(base))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "req-1", seenID)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, middleware.RequestLogger(zap.NewNop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, rec.Header().Get(middleware.HeaderRequestID), 36)
}
