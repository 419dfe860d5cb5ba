package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/checkout/internal/model"
)

func testURLs() model.CheckoutURLs {
	return model.CheckoutURLs{
		CancelURL:   "https://shop.example.com/checkout/cancel",
		ContinueURL: "https://shop.example.com/checkout/done",
		CallbackURL: "http://shop.example.com:80/api/v1/webhooks/netseasy/order-1",
	}
}

func TestRequestBuilder_Build(t *testing.T) {
	settings := Settings{
		AutoCapture:      true,
		TermsURL:         "https://shop.example.com/terms",
		MerchantTermsURL: "https://shop.example.com/merchant-terms",
		PaymentMethods:   "Card, MobilePay,,",
	}
	builder := NewRequestBuilder(settings, nil, nil)

	req, err := builder.Build(testOrder(), testURLs(), "secret123")
	require.NoError(t, err)

	assert.Equal(t, "DKK", req.Order.Currency)
	assert.Equal(t, "ORD-0001", req.Order.Reference)
	assert.Equal(t, int64(25000), req.Order.Amount)
	require.Len(t, req.Order.Items, 1)

	co := req.Checkout
	assert.True(t, co.Charge)
	assert.Equal(t, model.NetsIntegrationHostedPage, co.IntegrationType)
	assert.Equal(t, "https://shop.example.com/checkout/cancel", co.CancelURL)
	assert.Equal(t, "https://shop.example.com/checkout/done", co.ReturnURL)
	assert.Equal(t, "https://shop.example.com/terms", co.TermsURL)
	assert.Equal(t, "https://shop.example.com/merchant-terms", co.MerchantTermsURL)
	assert.True(t, co.MerchantHandlesConsumerData)
	require.NotNil(t, co.Appearance)
	assert.True(t, co.Appearance.DisplayOptions.ShowMerchantName)
	assert.True(t, co.Appearance.DisplayOptions.ShowOrderSummary)
	require.NotNil(t, co.Consumer)

	require.NotNil(t, req.Notifications)
	webhooks := req.Notifications.Webhooks
	require.Len(t, webhooks, 4)
	assert.Equal(t, model.NetsEventCheckoutCompleted, webhooks[0].EventName)
	assert.Equal(t, model.NetsEventChargeCreated, webhooks[1].EventName)
	assert.Equal(t, model.NetsEventCancelCreated, webhooks[2].EventName)
	assert.Equal(t, model.NetsEventRefundCompleted, webhooks[3].EventName)
	for _, wh := range webhooks {
		assert.Equal(t, "https://shop.example.com/api/v1/webhooks/netseasy/order-1", wh.URL)
		assert.Equal(t, "secret123", wh.Authorization)
	}

	assert.Equal(t, []model.NetsPaymentMethodSelection{
		{Name: "Card", Enabled: true},
		{Name: "MobilePay", Enabled: true},
	}, req.PaymentMethodsConfiguration)
}

func TestRequestBuilder_AmountMatchesItems(t *testing.T) {
	order := testOrder()
	order.Shipping = model.ShippingInfo{
		Method:     &model.ShippingMethod{SKU: "SHIP", Name: "Ship"},
		TotalPrice: price("39.99", "10.00"),
		TaxRate:    dec("0.25"),
	}
	order.SubtotalPrice.Adjustments = []model.Adjustment{
		{Kind: model.AdjustmentDiscount, DiscountID: "d", Price: price("-3.33", "-0.83")},
	}
	order.TransactionAmount.Adjustments = []model.Adjustment{
		{Kind: model.AdjustmentGiftCard, GiftCardID: "g", GiftCardCode: "G", Amount: dec("-10.01")},
	}

	req, err := NewRequestBuilder(Settings{}, nil, nil).Build(order, testURLs(), "k")
	require.NoError(t, err)

	var sum int64
	for _, item := range req.Order.Items {
		sum += item.GrossTotalAmount
	}
	assert.Equal(t, sum, req.Order.Amount)
}

func TestRequestBuilder_UnsupportedCurrency(t *testing.T) {
	order := testOrder()
	order.CurrencyCode = "ABC"

	_, err := NewRequestBuilder(Settings{}, nil, nil).Build(order, testURLs(), "k")

	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	assert.Contains(t, err.Error(), "ABC")
}

func TestRequestBuilder_FractionalQuantity(t *testing.T) {
	order := testOrder()
	order.Lines[0].Quantity = dec("1.5")

	req, err := NewRequestBuilder(Settings{}, nil, nil).Build(order, testURLs(), "k")

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Nil(t, req)
}

func TestRequestBuilder_JSONShape(t *testing.T) {
	req, err := NewRequestBuilder(Settings{}, nil, nil).Build(testOrder(), testURLs(), "k")
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	checkout := doc["checkout"].(map[string]any)
	assert.Equal(t, false, checkout["charge"])
	assert.NotContains(t, checkout, "termsUrl")
	assert.NotContains(t, doc, "paymentMethodsConfiguration")

	consumer := checkout["consumer"].(map[string]any)
	assert.NotContains(t, consumer, "company")
	assert.NotContains(t, consumer, "phoneNumber")

	item := doc["order"].(map[string]any)["items"].([]any)[0].(map[string]any)
	assert.Contains(t, item, "taxAmount")
}

func TestCurrencyCode(t *testing.T) {
	code, err := CurrencyCode("eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", code)

	_, err = CurrencyCode("")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestForceHTTPS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"http default port", "http://example.com:80/cb?x=1", "https://example.com/cb?x=1"},
		{"http no port", "http://example.com/cb", "https://example.com/cb"},
		{"https default port", "https://example.com:443/cb", "https://example.com/cb"},
		{"custom port kept", "http://example.com:8080/cb", "https://example.com:8080/cb"},
		{"already https", "https://example.com/cb", "https://example.com/cb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForceHTTPS(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("relative url", func(t *testing.T) {
		_, err := ForceHTTPS("/api/webhooks")
		assert.ErrorIs(t, err, ErrInvalidCallbackURL)
	})
}
