package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	routed := http.NewServeMux()
	routed.Handle("/", metrics.Middleware(mux))
	routed.Handle("GET /metrics", metrics.Handler())

	metrics.RecordCartMutation("add", metrics.OutcomeSuccess)
	metrics.RecordCheckout(metrics.OutcomeRejected)
	metrics.RecordPaymentVerification("razorpay", metrics.OutcomeRepeated)

	// Act
	routed.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))

	rec := httptest.NewRecorder()
	routed.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{code="404",method="GET",path="/api/v1/orders/abc"}`))
	assert.Contains(t, body, `storefront_cart_mutations_total{operation="add",outcome="success"}`)
	assert.Contains(t, body, `storefront_checkouts_total{outcome="rejected"}`)
	assert.Contains(t, body, `storefront_payment_verifications_total{gateway="razorpay",outcome="repeated"}`)
}
