package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddleware_Generates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	if len(id) != 8 {
		t.Errorf("expected 8-char generated request id, got %q", id)
	}
}

func TestRequestIDMiddleware_HonorsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Errorf("expected client-supplied request id, got %q", got)
	}
}
