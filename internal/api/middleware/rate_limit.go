package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
)

// CheckoutLimiter is satisfied by the Redis rate limit repository.
type CheckoutLimiter interface {
	CheckCheckoutRateLimit(ctx context.Context, subject string) (bool, int, int, error)
}

// CheckoutRateLimit throttles order placement per caller. It must run after
// Authenticate so the subject is the account rather than the client address.
// A limiter failure lets the request through.
func CheckoutRateLimit(limiter CheckoutLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			subject := clientAddr(r)
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				subject = claims.UserID.String()
			}

			allowed, remaining, retryAfter, err := limiter.CheckCheckoutRateLimit(r.Context(), subject)
			if err != nil {
				logger.Error("Checkout rate limit check failed", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				response.Error(w, errors.TooManyRequestsError("Too many checkout attempts, please try again later"))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
