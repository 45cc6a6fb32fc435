package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"plant-advisor/internal/infra/logger"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddlewarePassesThroughAndTagsRequests(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)

	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthCheck", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLoggingMiddlewareKeepsCallerRequestID(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)

	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
