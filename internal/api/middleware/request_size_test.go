package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxRequestBodySize(maxSize))
	r.POST("/echo", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestMaxRequestBodySizeAllowsSmallBody(t *testing.T) {
	r := newTestRouter(1024)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxRequestBodySizeRejectsOversizedBody(t *testing.T) {
	r := newTestRouter(8)

	body := strings.Repeat("a", 1024)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("field="+body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
