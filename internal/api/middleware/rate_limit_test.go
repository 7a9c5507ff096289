package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubLimiter struct {
	subject    string
	allowed    bool
	remaining  int
	retryAfter int
	err        error
}

func (s *stubLimiter) CheckCheckoutRateLimit(ctx context.Context, subject string) (bool, int, int, error) {
	s.subject = subject
	return s.allowed, s.remaining, s.retryAfter, s.err
}

func TestCheckoutRateLimit(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		limiter        *stubLimiter
		withClaims     bool
		expectedStatus int
		expectedHeader string
		headerValue    string
		expectedKey    string
	}{
		{
			name:           "Success - Allowed Per Account",
			limiter:        &stubLimiter{allowed: true, remaining: 4},
			withClaims:     true,
			expectedStatus: http.StatusCreated,
			expectedHeader: "X-RateLimit-Remaining",
			headerValue:    "4",
			expectedKey:    userID.String(),
		},
		{
			name:           "Success - Anonymous Falls Back To Address",
			limiter:        &stubLimiter{allowed: true, remaining: 1},
			expectedStatus: http.StatusCreated,
			expectedHeader: "X-RateLimit-Remaining",
			headerValue:    "1",
			expectedKey:    "192.0.2.1",
		},
		{
			name:           "Fail - Limit Exceeded",
			limiter:        &stubLimiter{allowed: false, retryAfter: 12},
			withClaims:     true,
			expectedStatus: http.StatusTooManyRequests,
			expectedHeader: "Retry-After",
			headerValue:    "12",
			expectedKey:    userID.String(),
		},
		{
			name:           "Success - Limiter Down Lets Request Through",
			limiter:        &stubLimiter{err: errors.New("redis down")},
			withClaims:     true,
			expectedStatus: http.StatusCreated,
			expectedKey:    userID.String(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
			if tc.withClaims {
				ctx := context.WithValue(req.Context(), middleware.UserContextKey, &models.Claims{UserID: userID})
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			// Act
			middleware.CheckoutRateLimit(tc.limiter)(next).ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedKey, tc.limiter.subject)
			if tc.expectedHeader != "" {
				assert.Equal(t, tc.headerValue, rr.Header().Get(tc.expectedHeader))
			}
		})
	}
}
