package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uniedit/checkout/internal/model"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name    string
		summary model.NetsPaymentSummary
		want    model.PaymentStatus
	}{
		{"nothing", model.NetsPaymentSummary{}, model.PaymentStatusInitialized},
		{"reserved", model.NetsPaymentSummary{ReservedAmount: 100}, model.PaymentStatusAuthorized},
		{"partially charged", model.NetsPaymentSummary{ReservedAmount: 100, ChargedAmount: 50}, model.PaymentStatusCaptured},
		{"cancelled", model.NetsPaymentSummary{ReservedAmount: 100, CancelledAmount: 100}, model.PaymentStatusCancelled},
		{"refunded", model.NetsPaymentSummary{ReservedAmount: 100, ChargedAmount: 100, RefundedAmount: 100}, model.PaymentStatusRefunded},
		{"everything", model.NetsPaymentSummary{ReservedAmount: 1, ChargedAmount: 1, CancelledAmount: 1, RefundedAmount: 1}, model.PaymentStatusRefunded},
		{"cancel beats charge", model.NetsPaymentSummary{ChargedAmount: 1, CancelledAmount: 1}, model.PaymentStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.summary))
		})
	}
}
