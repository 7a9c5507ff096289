package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"No Ids", "/api/v1/orders", "/api/v1/orders"},
		{"Single Id", "/api/v1/orders/7b0e7a3c-6f5d-4a3f-9a8e-1d2c3b4a5f6e", "/api/v1/orders/{id}"},
		{"Two Ids", "/api/v1/cart/7b0e7a3c-6f5d-4a3f-9a8e-1d2c3b4a5f6e/item/0c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f", "/api/v1/cart/{id}/item/{id}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestMiddleware(t *testing.T) {
	// Arrange
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("418", http.MethodGet, "/api/v1/teapot"))

	// Act
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/teapot", nil))

	// Assert
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("418", http.MethodGet, "/api/v1/teapot")))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
}

func TestHandler(t *testing.T) {
	OrdersPlaced.Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "orders_placed_total"))
}
