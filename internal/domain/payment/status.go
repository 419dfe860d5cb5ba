package payment

import "github.com/uniedit/checkout/internal/model"

// ResolveStatus derives the local payment status from a gateway summary.
// The most advanced non-zero amount wins; the summary is not validated.
func ResolveStatus(summary model.NetsPaymentSummary) model.PaymentStatus {
	switch {
	case summary.RefundedAmount > 0:
		return model.PaymentStatusRefunded
	case summary.CancelledAmount > 0:
		return model.PaymentStatusCancelled
	case summary.ChargedAmount > 0:
		return model.PaymentStatusCaptured
	case summary.ReservedAmount > 0:
		return model.PaymentStatusAuthorized
	default:
		return model.PaymentStatusInitialized
	}
}
