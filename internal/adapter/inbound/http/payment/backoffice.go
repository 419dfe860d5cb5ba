package paymenthttp

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/domain/payment"
	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/inbound"
	"github.com/uniedit/checkout/internal/utils/middleware"
	"go.uber.org/zap"
)

// BackOfficeHandler handles payment lifecycle requests made by staff.
type BackOfficeHandler struct {
	domain payment.PaymentDomain
	logger *zap.Logger
}

// NewBackOfficeHandler creates a new back-office handler.
func NewBackOfficeHandler(domain payment.PaymentDomain, logger *zap.Logger) *BackOfficeHandler {
	return &BackOfficeHandler{domain: domain, logger: logger.Named("backoffice")}
}

// RegisterRoutes registers back-office routes. r is expected to be
// protected by authentication middleware.
func (h *BackOfficeHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments/:orderId")
	{
		payments.GET("", h.GetTransaction)
		payments.GET("/status", h.FetchStatus)
		payments.POST("/cancel", h.CancelPayment)
		payments.POST("/capture", h.CapturePayment)
		payments.POST("/refund", h.RefundPayment)
	}
	r.GET("/gateway/payments/:paymentId", h.GetGatewayPayment)
}

// GetTransaction handles GET /payments/:orderId.
//
//	@Summary		Get order transaction
//	@Description	Returns the stored transaction state of an order
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderId	path		string	true	"Order ID"
//	@Success		200		{object}	model.TransactionResponse
//	@Failure		401		{object}	model.ErrorResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Router			/payments/{orderId} [get]
func (h *BackOfficeHandler) GetTransaction(c *gin.Context) {
	order, err := h.domain.GetTransaction(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		handleError(c, err)
		return
	}

	resp := model.TransactionResponse{
		OrderID:       order.ID,
		TransactionID: order.Transaction.TransactionID,
		PaymentStatus: order.Transaction.PaymentStatus,
		MetaData:      publicMetadata(order.Metadata),
	}
	if !order.Transaction.AmountAuthorized.IsZero() {
		resp.AmountAuthorized = order.Transaction.AmountAuthorized.StringFixed(2)
	}
	c.JSON(http.StatusOK, resp)
}

// GetGatewayPayment handles GET /gateway/payments/:paymentId.
//
//	@Summary		Get gateway payment
//	@Description	Returns the payment as the gateway reports it
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			paymentId	path		string	true	"Gateway payment ID"
//	@Success		200			{object}	model.NetsPaymentDetails
//	@Failure		502			{object}	model.ErrorResponse
//	@Router			/gateway/payments/{paymentId} [get]
func (h *BackOfficeHandler) GetGatewayPayment(c *gin.Context) {
	details := h.domain.GetPayment(c.Request.Context(), c.Param("paymentId"))
	if details == nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Code:    "payment_unavailable",
			Message: "Payment could not be retrieved",
		})
		return
	}
	c.JSON(http.StatusOK, details)
}

// FetchStatus handles GET /payments/:orderId/status.
//
//	@Summary		Refresh payment status
//	@Description	Reads the payment from the gateway and stores the resolved status
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderId	path		string	true	"Order ID"
//	@Success		200		{object}	model.TransactionResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		409		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Router			/payments/{orderId}/status [get]
func (h *BackOfficeHandler) FetchStatus(c *gin.Context) {
	h.lifecycle(c, "fetch_status", h.domain.FetchPaymentStatus)
}

// CancelPayment handles POST /payments/:orderId/cancel.
//
//	@Summary		Cancel payment
//	@Description	Cancels the authorized amount of the order's payment
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderId	path		string	true	"Order ID"
//	@Success		200		{object}	model.TransactionResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		409		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Router			/payments/{orderId}/cancel [post]
func (h *BackOfficeHandler) CancelPayment(c *gin.Context) {
	h.lifecycle(c, "cancel", h.domain.CancelPayment)
}

// CapturePayment handles POST /payments/:orderId/capture.
//
//	@Summary		Capture payment
//	@Description	Charges the authorized amount of the order's payment
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderId	path		string	true	"Order ID"
//	@Success		200		{object}	model.TransactionResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		409		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Router			/payments/{orderId}/capture [post]
func (h *BackOfficeHandler) CapturePayment(c *gin.Context) {
	h.lifecycle(c, "capture", h.domain.CapturePayment)
}

// RefundPayment handles POST /payments/:orderId/refund.
//
//	@Summary		Refund payment
//	@Description	Refunds the charge of the order's payment
//	@Tags			BackOffice
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderId	path		string	true	"Order ID"
//	@Success		200		{object}	model.TransactionResponse
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		409		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Router			/payments/{orderId}/refund [post]
func (h *BackOfficeHandler) RefundPayment(c *gin.Context) {
	h.lifecycle(c, "refund", h.domain.RefundPayment)
}

type lifecycleFunc func(ctx context.Context, orderID string) *model.ApiResult

// lifecycle runs op against an order that has a payment. The domain only
// reports success or an empty result, so the order is checked first to
// answer 404 and 409 precisely.
func (h *BackOfficeHandler) lifecycle(c *gin.Context, name string, op lifecycleFunc) {
	ctx := c.Request.Context()
	orderID := c.Param("orderId")

	order, err := h.domain.GetTransaction(ctx, orderID)
	if err != nil {
		handleError(c, err)
		return
	}
	if order.Transaction.TransactionID == "" && order.Metadata[model.MetaPaymentID] == "" {
		handleError(c, payment.ErrMissingPaymentID)
		return
	}

	result := op(ctx, orderID)
	if result.IsEmpty() {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Code:    "payment_operation_failed",
			Message: "The payment gateway did not accept the operation",
		})
		return
	}

	h.logger.Info("payment operation performed",
		zap.String("operation", name),
		zap.String("order_id", orderID),
		zap.String("subject", middleware.GetSubject(c)),
		zap.String("payment_status", string(result.TransactionInfo.PaymentStatus)),
	)

	resp := model.TransactionResponse{
		OrderID:       orderID,
		TransactionID: result.TransactionInfo.TransactionID,
		PaymentStatus: result.TransactionInfo.PaymentStatus,
		MetaData:      publicMetadata(result.MetaData),
	}
	if amount := result.TransactionInfo.AmountAuthorized; amount != nil {
		resp.AmountAuthorized = amount.StringFixed(2)
	}
	c.JSON(http.StatusOK, resp)
}

// Compile-time check
var _ inbound.BackOfficeHttpPort = (*BackOfficeHandler)(nil)
