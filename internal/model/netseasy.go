package model

import "time"

// Webhook event names the gateway delivers.
const (
	NetsEventCheckoutCompleted = "payment.checkout.completed"
	NetsEventChargeCreated     = "payment.charge.created.v2"
	NetsEventCancelCreated     = "payment.cancel.created"
	NetsEventRefundCompleted   = "payment.refund.completed"
)

// Fixed values of the payment request.
const (
	NetsIntegrationHostedPage = "HostedPaymentPage"
	NetsUnitPieces            = "pcs"
)

// NetsPaymentRequest is the body of POST /v1/payments/.
type NetsPaymentRequest struct {
	Order                       NetsOrder                    `json:"order"`
	Checkout                    NetsCheckout                 `json:"checkout"`
	Notifications               *NetsNotifications           `json:"notifications,omitempty"`
	PaymentMethodsConfiguration []NetsPaymentMethodSelection `json:"paymentMethodsConfiguration,omitempty"`
}

// NetsOrder is the order block of a payment request.
type NetsOrder struct {
	Items     []NetsOrderItem `json:"items"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference,omitempty"`
}

// NetsOrderItem is a gateway order line. Amounts are minor units and
// TaxRate is in basis points.
type NetsOrderItem struct {
	Reference        string `json:"reference"`
	Name             string `json:"name"`
	Quantity         int64  `json:"quantity"`
	Unit             string `json:"unit"`
	UnitPrice        int64  `json:"unitPrice"`
	TaxRate          int64  `json:"taxRate"`
	TaxAmount        int64  `json:"taxAmount"`
	GrossTotalAmount int64  `json:"grossTotalAmount"`
	NetTotalAmount   int64  `json:"netTotalAmount"`
}

// NetsCheckout is the checkout behaviour block.
type NetsCheckout struct {
	Charge                      bool            `json:"charge"`
	IntegrationType             string          `json:"integrationType"`
	CancelURL                   string          `json:"cancelUrl,omitempty"`
	ReturnURL                   string          `json:"returnUrl,omitempty"`
	TermsURL                    string          `json:"termsUrl,omitempty"`
	MerchantTermsURL            string          `json:"merchantTermsUrl,omitempty"`
	Appearance                  *NetsAppearance `json:"appearance,omitempty"`
	MerchantHandlesConsumerData bool            `json:"merchantHandlesConsumerData"`
	Consumer                    *NetsConsumer   `json:"consumer,omitempty"`
}

// NetsAppearance controls the hosted page.
type NetsAppearance struct {
	DisplayOptions NetsDisplayOptions `json:"displayOptions"`
}

// NetsDisplayOptions toggles hosted page sections.
type NetsDisplayOptions struct {
	ShowMerchantName bool `json:"showMerchantName"`
	ShowOrderSummary bool `json:"showOrderSummary"`
}

// NetsConsumer is the consumer profile. Exactly one of PrivatePerson and
// Company is set.
type NetsConsumer struct {
	Reference       string             `json:"reference,omitempty"`
	Email           string             `json:"email,omitempty"`
	ShippingAddress *NetsAddress       `json:"shippingAddress,omitempty"`
	PhoneNumber     *NetsPhone         `json:"phoneNumber,omitempty"`
	PrivatePerson   *NetsPrivatePerson `json:"privatePerson,omitempty"`
	Company         *NetsCompany       `json:"company,omitempty"`
}

// NetsAddress is a consumer shipping address. Country is ISO 3166 alpha-3.
type NetsAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	Country      string `json:"country,omitempty"`
}

// NetsPhone is an international phone number split into prefix and number.
type NetsPhone struct {
	Prefix string `json:"prefix"`
	Number string `json:"number"`
}

// NetsPrivatePerson is the private consumer variant.
type NetsPrivatePerson struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NetsCompany is the business consumer variant.
type NetsCompany struct {
	Name    string            `json:"name"`
	Contact NetsPrivatePerson `json:"contact"`
}

// NetsNotifications holds the webhook subscriptions.
type NetsNotifications struct {
	Webhooks []NetsWebhook `json:"webhooks"`
}

// NetsWebhook is one webhook subscription.
type NetsWebhook struct {
	EventName     string `json:"eventName"`
	URL           string `json:"url"`
	Authorization string `json:"authorization"`
}

// NetsPaymentMethodSelection enables a payment method on the hosted page.
type NetsPaymentMethodSelection struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// NetsPaymentResult is the response of a create call.
type NetsPaymentResult struct {
	PaymentID string `json:"paymentId"`
}

// NetsPaymentDetails is the response of GET /v1/payments/{id}.
type NetsPaymentDetails struct {
	Payment NetsPayment `json:"payment"`
}

// NetsPayment is the payment resource.
type NetsPayment struct {
	PaymentID    string             `json:"paymentId"`
	Created      *time.Time         `json:"created,omitempty"`
	Checkout     NetsCheckoutInfo   `json:"checkout"`
	OrderDetails NetsOrderDetails   `json:"orderDetails"`
	Summary      NetsPaymentSummary `json:"summary"`
}

// NetsCheckoutInfo carries the hosted page URL.
type NetsCheckoutInfo struct {
	URL string `json:"url"`
}

// NetsOrderDetails echoes the order block.
type NetsOrderDetails struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// NetsPaymentSummary holds the lifecycle amounts in minor units.
type NetsPaymentSummary struct {
	ReservedAmount  int64 `json:"reservedAmount"`
	ChargedAmount   int64 `json:"chargedAmount"`
	RefundedAmount  int64 `json:"refundedAmount"`
	CancelledAmount int64 `json:"cancelledAmount"`
}

// NetsAmountRequest is the body of cancel and charge calls.
type NetsAmountRequest struct {
	Amount int64 `json:"amount"`
}

// NetsRefundRequest is the body of a refund call.
type NetsRefundRequest struct {
	Invoice string `json:"invoice,omitempty"`
	Amount  int64  `json:"amount"`
}

// NetsCharge is the response of a charge call.
type NetsCharge struct {
	ChargeID string       `json:"chargeId"`
	Invoice  *NetsInvoice `json:"invoice,omitempty"`
}

// NetsInvoice is the invoice attached to a charge.
type NetsInvoice struct {
	InvoiceNumber string `json:"invoiceNumber"`
}

// NetsRefund is the response of a refund call.
type NetsRefund struct {
	RefundID string `json:"refundId"`
}

// NetsWebhookEvent is an inbound webhook notification.
type NetsWebhookEvent struct {
	ID         string         `json:"id"`
	MerchantID int64          `json:"merchantId"`
	Timestamp  string         `json:"timestamp"`
	Event      string         `json:"event"`
	Data       map[string]any `json:"data"`
}

// DataString returns a string field of the event payload, or "".
func (e *NetsWebhookEvent) DataString(field string) string {
	if e == nil || e.Data == nil {
		return ""
	}
	s, _ := e.Data[field].(string)
	return s
}
