package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inventaris/backend/internal/infrastructure/logger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(capture *string) *gin.Engine {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			*capture = logger.GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("honors a caller-supplied id", func(t *testing.T) {
		var fromContext string
		r := newRouter(&fromContext)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-abc", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-abc", fromContext)
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		var fromContext string
		r := newRouter(&fromContext)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		generated := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, generated)
		assert.Equal(t, generated, fromContext)
	})
}
