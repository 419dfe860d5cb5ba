package model

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the local payment status of an order.
type PaymentStatus string

const (
	PaymentStatusInitialized PaymentStatus = "initialized"
	PaymentStatusAuthorized  PaymentStatus = "authorized"
	PaymentStatusCaptured    PaymentStatus = "captured"
	PaymentStatusCancelled   PaymentStatus = "cancelled"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// IsTerminal returns true if no further transition is expected.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCancelled || s == PaymentStatusRefunded
}

// Transaction metadata keys shared with the order store.
const (
	MetaPaymentID      = "netsEasyPaymentId"
	MetaChargeID       = "netsEasyChargeId"
	MetaRefundID       = "netsEasyRefundId"
	MetaCancelID       = "netsEasyCancelId"
	MetaWebhookAuthKey = "netsEasyWebhookAuthKey"
)

// TransactionInfo is the transaction state stored on an order.
type TransactionInfo struct {
	TransactionID    string          `json:"transaction_id"`
	AmountAuthorized decimal.Decimal `json:"amount_authorized"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
}

// TransactionUpdate is a change to apply to an order's transaction state.
// A nil AmountAuthorized leaves the stored amount untouched.
type TransactionUpdate struct {
	TransactionID    string
	AmountAuthorized *decimal.Decimal
	PaymentStatus    PaymentStatus
}

// ApiResult is the outcome of a lifecycle call. A nil TransactionInfo
// marks the empty result returned on failure.
type ApiResult struct {
	TransactionInfo *TransactionUpdate
	MetaData        map[string]string
}

// IsEmpty reports whether the result carries no update.
func (r *ApiResult) IsEmpty() bool {
	return r == nil || r.TransactionInfo == nil
}

// CallbackResult is the outcome of a webhook callback.
type CallbackResult struct {
	StatusCode      int
	TransactionInfo *TransactionUpdate
	MetaData        map[string]string
}

// OK reports whether the callback was applied.
func (r *CallbackResult) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// BadRequestCallback returns a rejected callback result.
func BadRequestCallback() *CallbackResult {
	return &CallbackResult{StatusCode: http.StatusBadRequest}
}

// CheckoutURLs are the storefront URLs for one checkout attempt.
type CheckoutURLs struct {
	CancelURL   string
	ContinueURL string
	CallbackURL string
}

// PaymentForm is what the storefront needs to redirect the customer.
// An empty CheckoutURL means the payment could not be created.
type PaymentForm struct {
	PaymentID   string
	CheckoutURL string
	CheckoutKey string
	MetaData    map[string]string
}
