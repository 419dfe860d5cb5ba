package paymenthttp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/checkout/internal/domain/payment"
	"github.com/uniedit/checkout/internal/model"
	apperrors "github.com/uniedit/checkout/internal/utils/errors"
)

// handleError maps payment domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, payment.ErrOrderNotFound):
		appErr = apperrors.NotFound("order_not_found", "Order not found")

	case errors.Is(err, payment.ErrUnsupportedCurrency):
		appErr = apperrors.BadRequest("unsupported_currency", err.Error())

	case errors.Is(err, payment.ErrInvalidQuantity):
		appErr = apperrors.BadRequest("invalid_input", err.Error())

	case errors.Is(err, payment.ErrPaymentExists):
		appErr = apperrors.Conflict("payment_exists", "Order already has an active payment")

	case errors.Is(err, payment.ErrMissingPaymentID):
		appErr = apperrors.Conflict("payment_missing", "Order has no payment")

	case errors.Is(err, payment.ErrInvalidCallbackURL):
		appErr = apperrors.Internal(err)
		appErr.Code = "invalid_callback_url"
		appErr.Message = "Webhook callback URL is misconfigured"

	default:
		appErr = apperrors.As(err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.StatusCode, model.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// invalidInput responds to a request that failed binding.
func invalidInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    "invalid_input",
		Message: err.Error(),
	})
}

// publicMetadata drops values that must not leave the service.
func publicMetadata(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if k == model.MetaWebhookAuthKey || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
