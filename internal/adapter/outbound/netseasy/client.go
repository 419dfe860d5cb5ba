package netseasy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/outbound"
	"github.com/uniedit/checkout/internal/utils/metrics"
	"go.uber.org/zap"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL   string
	SecretKey string

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// client implements outbound.GatewayPort.
type client struct {
	baseURL   string
	secretKey string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[any]
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewClient creates a gateway client. Every call goes through one circuit
// breaker; rejected calls are not retried.
func NewClient(cfg Config, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) outbound.GatewayPort {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	c := &client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		http:      httpClient,
		metrics:   m,
		logger:    logger.Named("netseasy"),
	}

	c.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "netseasy",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Rejected requests say nothing about gateway health.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			c.metrics.SetGatewayBreakerOpen(to == gobreaker.StateOpen)
		},
	})

	return c
}

// CreatePayment creates a payment.
func (c *client) CreatePayment(ctx context.Context, req *model.NetsPaymentRequest) (*model.NetsPaymentResult, error) {
	var result model.NetsPaymentResult
	if err := c.do(ctx, "create_payment", http.MethodPost, "/v1/payments/", req, &result); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if result.PaymentID == "" {
		return nil, errors.New("create payment: response without paymentId")
	}
	return &result, nil
}

// GetPayment fetches a payment.
func (c *client) GetPayment(ctx context.Context, paymentID string) (*model.NetsPaymentDetails, error) {
	var details model.NetsPaymentDetails
	if err := c.do(ctx, "get_payment", http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &details); err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &details, nil
}

// CancelPayment cancels a reserved payment.
func (c *client) CancelPayment(ctx context.Context, paymentID string, amount int64) error {
	path := "/v1/payments/" + url.PathEscape(paymentID) + "/cancels"
	if err := c.do(ctx, "cancel_payment", http.MethodPost, path, &model.NetsAmountRequest{Amount: amount}, nil); err != nil {
		return fmt.Errorf("cancel payment: %w", err)
	}
	return nil
}

// ChargePayment charges a reserved payment.
func (c *client) ChargePayment(ctx context.Context, paymentID string, amount int64) (*model.NetsCharge, error) {
	var charge model.NetsCharge
	path := "/v1/payments/" + url.PathEscape(paymentID) + "/charges"
	if err := c.do(ctx, "charge_payment", http.MethodPost, path, &model.NetsAmountRequest{Amount: amount}, &charge); err != nil {
		return nil, fmt.Errorf("charge payment: %w", err)
	}
	if charge.ChargeID == "" {
		return nil, errors.New("charge payment: response without chargeId")
	}
	return &charge, nil
}

// RefundCharge refunds a charge.
func (c *client) RefundCharge(ctx context.Context, chargeID, invoice string, amount int64) (*model.NetsRefund, error) {
	var refund model.NetsRefund
	path := "/v1/charges/" + url.PathEscape(chargeID) + "/refunds"
	body := &model.NetsRefundRequest{Invoice: invoice, Amount: amount}
	if err := c.do(ctx, "refund_charge", http.MethodPost, path, body, &refund); err != nil {
		return nil, fmt.Errorf("refund charge: %w", err)
	}
	return &refund, nil
}

// do runs one request through the circuit breaker and records it.
func (c *client) do(ctx context.Context, operation, method, path string, body, out any) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.send(ctx, method, path, body, out)
	})
	c.metrics.RecordGatewayRequest(operation, err, time.Since(start))
	return err
}

func (c *client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Compile-time interface assertion
var _ outbound.GatewayPort = (*client)(nil)
