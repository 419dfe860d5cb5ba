package inbound

import "github.com/gin-gonic/gin"

// CheckoutHttpPort defines HTTP handler interface for checkout operations.
type CheckoutHttpPort interface {
	// CreatePayment handles POST /payments
	// Creates the hosted checkout payment for an order.
	CreatePayment(c *gin.Context)
}

// BackOfficeHttpPort defines HTTP handler interface for payment lifecycle
// operations performed by staff.
type BackOfficeHttpPort interface {
	// GetTransaction handles GET /payments/:orderId
	GetTransaction(c *gin.Context)

	// GetGatewayPayment handles GET /gateway/payments/:paymentId
	GetGatewayPayment(c *gin.Context)

	// FetchStatus handles GET /payments/:orderId/status
	FetchStatus(c *gin.Context)

	// CancelPayment handles POST /payments/:orderId/cancel
	CancelPayment(c *gin.Context)

	// CapturePayment handles POST /payments/:orderId/capture
	CapturePayment(c *gin.Context)

	// RefundPayment handles POST /payments/:orderId/refund
	RefundPayment(c *gin.Context)
}

// WebhookHttpPort defines HTTP handler interface for gateway webhooks.
type WebhookHttpPort interface {
	// HandleNetsEasyWebhook handles POST /webhooks/netseasy/:orderId
	HandleNetsEasyWebhook(c *gin.Context)
}
