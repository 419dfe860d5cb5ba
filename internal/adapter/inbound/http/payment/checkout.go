package paymenthttp

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/domain/payment"
	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/inbound"
)

// WebhookPath is the route prefix the gateway calls back on.
const WebhookPath = "/api/v1/webhooks/netseasy/"

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	domain          payment.PaymentDomain
	callbackBaseURL string
}

// NewCheckoutHandler creates a new checkout handler. callbackBaseURL is the
// public origin the gateway reaches this service on.
func NewCheckoutHandler(domain payment.PaymentDomain, callbackBaseURL string) *CheckoutHandler {
	return &CheckoutHandler{
		domain:          domain,
		callbackBaseURL: strings.TrimRight(callbackBaseURL, "/"),
	}
}

// RegisterRoutes registers checkout routes.
func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup, createMiddleware ...gin.HandlerFunc) {
	r.POST("/payments", append(createMiddleware, h.CreatePayment)...)
}

// CreatePayment handles POST /payments.
//
//	@Summary		Create hosted checkout payment
//	@Description	Creates the gateway payment for an order and returns the hosted checkout URL
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string						false	"Idempotency key"
//	@Param			request			body		model.CreatePaymentRequest	true	"Checkout request"
//	@Success		201				{object}	model.CreatePaymentResponse
//	@Failure		400				{object}	model.ErrorResponse
//	@Failure		409				{object}	model.ErrorResponse
//	@Failure		502				{object}	model.ErrorResponse
//	@Router			/payments [post]
func (h *CheckoutHandler) CreatePayment(c *gin.Context) {
	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	order := req.Order
	urls := model.CheckoutURLs{
		CancelURL:   req.CancelURL,
		ContinueURL: req.ContinueURL,
		CallbackURL: h.callbackBaseURL + WebhookPath + url.PathEscape(order.ID),
	}

	form, err := h.domain.CreatePayment(c.Request.Context(), &order, urls)
	if err != nil {
		handleError(c, err)
		return
	}

	if form.CheckoutURL == "" {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Code:    "payment_unavailable",
			Message: "Payment could not be created",
			Details: gin.H{"payment_id": form.PaymentID},
		})
		return
	}

	c.JSON(http.StatusCreated, model.CreatePaymentResponse{
		OrderID:     order.ID,
		PaymentID:   form.PaymentID,
		CheckoutURL: form.CheckoutURL,
		CheckoutKey: form.CheckoutKey,
	})
}

// Compile-time check
var _ inbound.CheckoutHttpPort = (*CheckoutHandler)(nil)
