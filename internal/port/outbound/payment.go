package outbound

import (
	"context"

	"github.com/uniedit/checkout/internal/model"
)

// GatewayPort defines the hosted-checkout gateway REST API.
type GatewayPort interface {
	// CreatePayment creates a payment and returns its id.
	CreatePayment(ctx context.Context, req *model.NetsPaymentRequest) (*model.NetsPaymentResult, error)

	// GetPayment fetches a payment with its summary and checkout URL.
	GetPayment(ctx context.Context, paymentID string) (*model.NetsPaymentDetails, error)

	// CancelPayment cancels the reserved amount of a payment.
	CancelPayment(ctx context.Context, paymentID string, amount int64) error

	// ChargePayment charges a reserved payment.
	ChargePayment(ctx context.Context, paymentID string, amount int64) (*model.NetsCharge, error)

	// RefundCharge refunds a charge.
	RefundCharge(ctx context.Context, chargeID, invoice string, amount int64) (*model.NetsRefund, error)
}

// OrderStorePort defines the order store holding order snapshots and
// their transaction state.
type OrderStorePort interface {
	// SaveOrder creates or replaces the snapshot of an order.
	SaveOrder(ctx context.Context, order *model.Order) error

	// GetOrder returns an order with its transaction state and metadata.
	// Returns nil, nil when the order does not exist.
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)

	// SetMetadata upserts transaction metadata values of an order.
	SetMetadata(ctx context.Context, orderID string, values map[string]string) error

	// ApplyTransaction updates the transaction state of an order.
	ApplyTransaction(ctx context.Context, orderID string, update *model.TransactionUpdate) error
}

// CountryLookupPort resolves country reference data.
type CountryLookupPort interface {
	// ThreeLetterCode maps an ISO 3166 country code to its alpha-3 form.
	ThreeLetterCode(countryCode string) (string, bool)
}
