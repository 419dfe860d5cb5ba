package model

// ErrorResponse defines error response structure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// CreatePaymentRequest starts a hosted checkout for an order.
type CreatePaymentRequest struct {
	Order       Order  `json:"order" binding:"required"`
	CancelURL   string `json:"cancel_url" binding:"required"`
	ContinueURL string `json:"continue_url" binding:"required"`
}

// CreatePaymentResponse is returned once the hosted checkout exists.
type CreatePaymentResponse struct {
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
	CheckoutKey string `json:"checkout_key,omitempty"`
}

// TransactionResponse reports the transaction state after a lifecycle call.
type TransactionResponse struct {
	OrderID          string            `json:"order_id"`
	TransactionID    string            `json:"transaction_id"`
	PaymentStatus    PaymentStatus     `json:"payment_status"`
	AmountAuthorized string            `json:"amount_authorized,omitempty"`
	MetaData         map[string]string `json:"metadata,omitempty"`
}
