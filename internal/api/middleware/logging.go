package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Logging пишет строку на каждый запрос: метод, путь, статус, длительность
func Logging(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, elapsed, GetRequestID(r.Context()))
			case rec.status >= http.StatusBadRequest:
				logger.Warn("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, elapsed, GetRequestID(r.Context()))
			default:
				logger.Info("%s %s - status=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, rec.status, elapsed, GetRequestID(r.Context()))
			}
		})
	}
}
