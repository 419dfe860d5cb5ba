package payment

import "errors"

var (
	// ErrUnsupportedCurrency is returned when the order currency is not an ISO 4217 code.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidQuantity is returned when an order line quantity is not a whole number of at least one.
	ErrInvalidQuantity = errors.New("invalid line quantity")

	// ErrPaymentExists is returned when checkout is requested for an order
	// whose payment has already moved past initialization.
	ErrPaymentExists = errors.New("order already has an active payment")

	// ErrInvalidCallbackURL is returned when the webhook callback URL cannot be used.
	ErrInvalidCallbackURL = errors.New("invalid callback url")

	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrMissingPaymentID is returned when the order has no gateway payment.
	ErrMissingPaymentID = errors.New("order has no payment id")

	// ErrMissingChargeID is returned when a refund is requested before a charge.
	ErrMissingChargeID = errors.New("order has no charge id")

	// ErrEmptyPayload is returned when a webhook arrives without a body.
	ErrEmptyPayload = errors.New("empty webhook payload")

	// ErrMissingAuthorization is returned when a webhook has no Authorization header.
	ErrMissingAuthorization = errors.New("missing webhook authorization")

	// ErrAuthorizationMismatch is returned when a webhook Authorization header
	// does not match the secret issued for the payment.
	ErrAuthorizationMismatch = errors.New("webhook authorization mismatch")

	// ErrMalformedPayload is returned when a webhook body is not a valid event.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrUnknownEvent is returned for webhook events that are not subscribed.
	ErrUnknownEvent = errors.New("unknown webhook event")
)
