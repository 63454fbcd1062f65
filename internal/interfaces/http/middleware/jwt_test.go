package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTRouter(cfg JWTMiddlewareConfig, mw func(JWTMiddlewareConfig) gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    GetJWTUserID(c),
			"role":      string(GetJWTRole(c)),
			"ctxUserId": logger.UserID(c.Request.Context()),
		})
	})
	return router
}

func doGet(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	token, userID := issueToken(svc, "admin")

	w := doGet(newJWTRouter(JWTMiddlewareConfig{JWTService: svc}, JWTAuth), token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.Contains(t, w.Body.String(), `"ctxUserId":"`+userID.String()+`"`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := doGet(newJWTRouter(JWTMiddlewareConfig{JWTService: newTestJWTService()}, JWTAuth), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-that-is-long-enough!",
		AccessTokenExpiration: time.Minute,
		Issuer:                "test-issuer",
	})
	token, _ := issueToken(other, "admin")

	w := doGet(newJWTRouter(JWTMiddlewareConfig{JWTService: newTestJWTService()}, JWTAuth), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	token, _ := issueToken(svc, "seller")
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))

	w := doGet(newJWTRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist}, JWTAuth), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService()
	router := newJWTRouter(JWTMiddlewareConfig{JWTService: svc}, OptionalJWTAuth)

	t.Run("anonymous passes without claims", func(t *testing.T) {
		w := doGet(router, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":""`)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		w := doGet(router, "garbage")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":""`)
	})

	t.Run("valid token sets claims", func(t *testing.T) {
		token, userID := issueToken(svc, "seller")
		w := doGet(router, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestRequireRoles(t *testing.T) {
	svc := newTestJWTService()
	cfg := JWTMiddlewareConfig{JWTService: svc}

	router := gin.New()
	router.GET("/admin", JWTAuth(cfg), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/staff", JWTAuth(cfg), RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/anyone", JWTAuth(cfg), RequireRoles(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/unauth", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		path string
		role identity.Role
		want int
	}{
		{"/admin", identity.RoleSuperAdmin, http.StatusOK},
		{"/admin", identity.RoleAdmin, http.StatusOK},
		{"/admin", identity.RoleSeller, http.StatusForbidden},
		{"/staff", identity.RoleSeller, http.StatusOK},
		{"/staff", identity.RoleCustom, http.StatusForbidden},
		{"/anyone", identity.RoleCustom, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.role), func(t *testing.T) {
			token, _ := issueToken(svc, string(tt.role))
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("no claims is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unauth", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
