package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins *OriginSet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func allowOriginHeader(router *gin.Engine, origin string) string {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", origin)
	router.ServeHTTP(w, req)
	return w.Header().Get("Access-Control-Allow-Origin")
}

func TestCORS_AllowlistedOriginOnly(t *testing.T) {
	origins := NewOriginSet([]string{"http://allowed.local"})
	router := corsRouter(origins)

	assert.Equal(t, "http://allowed.local", allowOriginHeader(router, "http://allowed.local"))
	assert.Empty(t, allowOriginHeader(router, "http://evil.local"))
}

func TestCORS_AllowlistHotReload(t *testing.T) {
	origins := NewOriginSet([]string{"http://old.local"})
	router := corsRouter(origins)

	assert.Equal(t, "http://old.local", allowOriginHeader(router, "http://old.local"))
	assert.Empty(t, allowOriginHeader(router, "http://new.local"))

	// A config reload swaps the whole allowlist under the running
	// middleware.
	origins.Replace([]string{"http://new.local"})

	assert.Empty(t, allowOriginHeader(router, "http://old.local"))
	assert.Equal(t, "http://new.local", allowOriginHeader(router, "http://new.local"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	router := corsRouter(NewOriginSet([]string{"http://allowed.local"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://allowed.local")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
