package middleware

import (
	"fmt"
	"net/http"
	"plant-advisor/internal/infra/logger"

	"github.com/google/uuid"
)

func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			log.Info(fmt.Sprintf("Request: %s %s from %s request_id %s", r.Method, r.URL.Path, r.RemoteAddr, requestID))

			next.ServeHTTP(wrappedWriter, r)

			log.Info(fmt.Sprintf("Response: %d %s %s request_id %s", wrappedWriter.statusCode, r.Method, r.URL.Path, requestID))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
