package netseasy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/utils/metrics"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Type   string
	Body   map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Type:   r.Header.Get("Content-Type"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		seen = append(seen, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(baseURL string, m *metrics.Metrics) *client {
	return NewClient(Config{BaseURL: baseURL, SecretKey: "abc123", FailureThreshold: 2, OpenTimeout: time.Minute},
		nil, m, zap.NewNop()).(*client)
}

func TestClient_CreatePayment(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusCreated, `{"paymentId":"pay-1","hostedPaymentPageUrl":"ignored"}`)
	c := newTestClient(srv.URL, nil)

	result, err := c.CreatePayment(context.Background(), &model.NetsPaymentRequest{
		Order: model.NetsOrder{Amount: 100, Currency: "DKK", Items: []model.NetsOrderItem{{Reference: "a", Quantity: 1, GrossTotalAmount: 100}}},
	})

	require.NoError(t, err)
	assert.Equal(t, "pay-1", result.PaymentID)
	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/payments/", req.Path)
	assert.Equal(t, "abc123", req.Auth)
	assert.Equal(t, "application/json", req.Type)
	order := req.Body["order"].(map[string]any)
	assert.Equal(t, float64(100), order["amount"])
	assert.NotContains(t, req.Body, "notifications")
}

func TestClient_GetPayment(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"payment":{"paymentId":"pay-1","checkout":{"url":"https://checkout.example/x"},
		"orderDetails":{"amount":25000,"currency":"DKK","reference":"ORD-1"},
		"summary":{"reservedAmount":25000,"chargedAmount":10000}}}`)
	c := newTestClient(srv.URL, nil)

	details, err := c.GetPayment(context.Background(), "pay-1")

	require.NoError(t, err)
	assert.Equal(t, "/v1/payments/pay-1", (*seen)[0].Path)
	assert.Equal(t, http.MethodGet, (*seen)[0].Method)
	assert.Equal(t, "https://checkout.example/x", details.Payment.Checkout.URL)
	assert.Equal(t, int64(25000), details.Payment.OrderDetails.Amount)
	assert.Equal(t, int64(10000), details.Payment.Summary.ChargedAmount)
}

func TestClient_LifecycleCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel", func(t *testing.T) {
		srv, seen := newTestServer(t, http.StatusNoContent, "")
		c := newTestClient(srv.URL, nil)

		require.NoError(t, c.CancelPayment(ctx, "pay-1", 25000))
		assert.Equal(t, "/v1/payments/pay-1/cancels", (*seen)[0].Path)
		assert.Equal(t, float64(25000), (*seen)[0].Body["amount"])
	})

	t.Run("charge", func(t *testing.T) {
		srv, seen := newTestServer(t, http.StatusCreated, `{"chargeId":"chg-1","invoice":{"invoiceNumber":"INV-1"}}`)
		c := newTestClient(srv.URL, nil)

		charge, err := c.ChargePayment(ctx, "pay-1", 25000)
		require.NoError(t, err)
		assert.Equal(t, "chg-1", charge.ChargeID)
		assert.Equal(t, "INV-1", charge.Invoice.InvoiceNumber)
		assert.Equal(t, "/v1/payments/pay-1/charges", (*seen)[0].Path)
	})

	t.Run("charge without chargeId", func(t *testing.T) {
		for _, tc := range []struct {
			status int
			body   string
		}{
			{http.StatusCreated, `{}`},
			{http.StatusNoContent, ""},
		} {
			srv, _ := newTestServer(t, tc.status, tc.body)
			c := newTestClient(srv.URL, nil)

			charge, err := c.ChargePayment(ctx, "pay-1", 25000)

			assert.ErrorContains(t, err, "without chargeId")
			assert.Nil(t, charge)
		}
	})

	t.Run("refund", func(t *testing.T) {
		srv, seen := newTestServer(t, http.StatusCreated, `{"refundId":"ref-1"}`)
		c := newTestClient(srv.URL, nil)

		refund, err := c.RefundCharge(ctx, "chg-1", "ORD-1", 25000)
		require.NoError(t, err)
		assert.Equal(t, "ref-1", refund.RefundID)
		assert.Equal(t, "/v1/charges/chg-1/refunds", (*seen)[0].Path)
		assert.Equal(t, "ORD-1", (*seen)[0].Body["invoice"])
		assert.Equal(t, float64(25000), (*seen)[0].Body["amount"])
	})
}

func TestClient_APIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"errors":{"amount":["invalid"]}}`)
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	c := newTestClient(srv.URL, m)

	_, err := c.ChargePayment(context.Background(), "pay-1", 0)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequestsTotal.WithLabelValues("charge_payment", "error")))

	t.Run("client errors do not open the breaker", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, _ = c.ChargePayment(context.Background(), "pay-1", 0)
		}
		assert.Equal(t, gobreaker.StateClosed, c.breaker.State())
	})
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusServiceUnavailable, `{}`)
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	c := newTestClient(srv.URL, m)
	ctx := context.Background()

	_, err := c.GetPayment(ctx, "pay-1")
	require.Error(t, err)
	_, err = c.GetPayment(ctx, "pay-1")
	require.Error(t, err)

	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayBreakerOpen))

	_, err = c.GetPayment(ctx, "pay-1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, *seen, 2)
}
