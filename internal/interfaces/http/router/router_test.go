package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMount_AllMethods(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	items := NewResource("/items").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok)

	assert.Equal(t, []string{"GET /items", "POST /items", "PUT /items/:id", "PATCH /items/:id", "DELETE /items/:id"}, items.Routes())

	engine := gin.New()
	Mount(engine.Group(APIPrefix), items)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/items"},
		{http.MethodPost, "/api/v1/items"},
		{http.MethodPut, "/api/v1/items/1"},
		{http.MethodPatch, "/api/v1/items/1"},
		{http.MethodDelete, "/api/v1/items/1"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResource_MiddlewareRunsBeforeRoutes(t *testing.T) {
	res := NewResource("/test").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "yes")
			c.Next()
		}).
		GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	engine := gin.New()
	Mount(engine, res)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Group"))
}
