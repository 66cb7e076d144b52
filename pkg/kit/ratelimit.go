package kit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

var errRateLimited = NewError(http.StatusTooManyRequests, "rate_limited", "too many requests")

// RateLimitByIP limits each client IP to limit requests per window. A
// non-positive limit disables limiting.
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			WriteError(w, r, errRateLimited)
		}),
	)
}
