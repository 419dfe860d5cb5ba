package paymenthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/domain/payment"
	"github.com/uniedit/checkout/internal/port/inbound"
	"github.com/uniedit/checkout/internal/utils/metrics"
)

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 1 << 20

// WebhookHandler handles gateway webhook HTTP requests.
type WebhookHandler struct {
	domain  payment.PaymentDomain
	metrics *metrics.Metrics
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(domain payment.PaymentDomain, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{domain: domain, metrics: m}
}

// RegisterRoutes registers webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	webhooks := r.Group("/webhooks", middleware...)
	{
		webhooks.POST("/netseasy/:orderId", h.HandleNetsEasyWebhook)
	}
}

// HandleNetsEasyWebhook handles POST /webhooks/netseasy/:orderId.
// The response carries no body: the gateway only looks at the status and
// redelivers anything that is not 200.
//
//	@Summary		Gateway webhook
//	@Description	Applies a payment event sent by the gateway
//	@Tags			Webhook
//	@Accept			json
//	@Param			orderId			path	string	true	"Order ID"
//	@Param			Authorization	header	string	true	"Webhook secret issued at checkout"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/webhooks/netseasy/{orderId} [post]
func (h *WebhookHandler) HandleNetsEasyWebhook(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	cb := payment.NewCallback(c.Request.Header, body)

	result := h.domain.ProcessCallback(c.Request.Context(), c.Param("orderId"), cb)

	h.metrics.RecordWebhook(result.StatusCode)
	c.Status(result.StatusCode)
}

// Compile-time check
var _ inbound.WebhookHttpPort = (*WebhookHandler)(nil)
