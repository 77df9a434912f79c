package middleware

import (
	"net/http"
	"time"

	"github.com/dukerupert/timetrack/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route
// pattern. It must wrap the mux so that r.Pattern is set when it is read.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)

		defer func() {
			metrics.ObserveHTTP(r.Pattern, r.Method, rec.status, time.Since(start))
		}()
		next.ServeHTTP(rec, r)
	})
}
