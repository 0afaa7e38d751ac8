package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"captionfix/internal/logging"
	"captionfix/internal/services"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withRequestLogging assigns a correlation id to every request and logs its
// outcome once the handler returns.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := services.WithRequestID(r.Context(), requestID)

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logger := logging.WithContext(ctx, s.log())
		attrs := []logging.Attr{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Int64("bytes", rec.bytes),
			logging.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			logging.WarnWithContext(logger, "http request failed", "http_request_failed",
				append(attrs,
					logging.String(logging.FieldErrorHint, "see preceding error for this correlation_id"),
					logging.String(logging.FieldImpact, "client received a server error"),
				)...,
			)
			return
		}
		logger.Debug("http request", logging.Args(append(attrs, logging.String(logging.FieldEventType, "http_request"))...)...)
	})
}
