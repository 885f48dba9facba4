package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gabinete-digital/internal/models"
	"gabinete-digital/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("segredo", time.Hour)
	token, err := jwtManager.GenerateToken("admin", "chefe@gabinete.example.com", string(models.RoleAdmin))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, perform(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, perform(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer lixo")
	assert.Equal(t, http.StatusUnauthorized, perform(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := perform(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"admin","role":"ADMIN"}`, w.Body.String())
}

func TestAuthMiddleware_QueryTokenOnlyForWebsocket(t *testing.T) {
	jwtManager := auth.NewJWTManager("segredo", time.Hour)
	token, err := jwtManager.GenerateToken("assessor", "a@gabinete.example.com", string(models.RoleStaff))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ws", AuthMiddleware(jwtManager), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	assert.Equal(t, http.StatusUnauthorized, perform(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	assert.Equal(t, http.StatusOK, perform(r, req).Code)
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set(ContextRole, role)
		}
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{"VISITANTE", http.StatusForbidden},
		{string(models.RoleStaff), http.StatusForbidden},
		{string(models.RoleAdmin), http.StatusOK},
	}

	for _, tc := range cases {
		r := gin.New()
		r.GET("/config", withRole(tc.role), RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := perform(r, httptest.NewRequest(http.MethodGet, "/config", nil))
		assert.Equal(t, tc.want, w.Code, "papel %q", tc.role)
	}
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	r.DELETE("/staff", withRole(string(models.RoleStaff)), RequirePermission(models.PermissionDeleteRecords), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.DELETE("/admin", withRole(string(models.RoleAdmin)), RequirePermission(models.PermissionDeleteRecords), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/export", withRole(string(models.RoleStaff)), RequirePermission(models.PermissionExportData), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, perform(r, httptest.NewRequest(http.MethodDelete, "/staff", nil)).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, httptest.NewRequest(http.MethodDelete, "/admin", nil)).Code)
	assert.Equal(t, http.StatusOK, perform(r, httptest.NewRequest(http.MethodGet, "/export", nil)).Code)
}

func TestMemoryCounter_SlidingWindow(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mc := NewMemoryCounter(2, time.Minute)
	defer mc.Stop()

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := mc.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := mc.Allow(context.Background(), "10.0.0.1")
	assert.False(t, ok)

	ok, _ = mc.Allow(context.Background(), "10.0.0.2")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = mc.Allow(context.Background(), "10.0.0.1")
	assert.True(t, ok)

	mc.cleanup()
	mc.mutex.Lock()
	assert.Len(t, mc.requests, 1)
	mc.mutex.Unlock()
}

func TestRateLimit_Blocks(t *testing.T) {
	mc := NewMemoryCounter(1, time.Minute)
	defer mc.Stop()

	r := gin.New()
	r.POST("/demandas", NewRateLimiter(mc, quietLogger()).RateLimit(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, perform(r, httptest.NewRequest(http.MethodPost, "/demandas", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, httptest.NewRequest(http.MethodPost, "/demandas", nil)).Code)
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := gin.New()
	r.POST("/mensagens", NewRateLimiter(NewRedisCounter(client, 1, time.Minute), quietLogger()).RateLimit(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, perform(r, httptest.NewRequest(http.MethodPost, "/mensagens", nil)).Code)
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(), Logger(quietLogger()))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := perform(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = perform(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
}
