package payment

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/outbound"
	"golang.org/x/text/currency"
)

// webhookEvents are subscribed for every payment, in this order.
var webhookEvents = []string{
	model.NetsEventCheckoutCompleted,
	model.NetsEventChargeCreated,
	model.NetsEventCancelCreated,
	model.NetsEventRefundCompleted,
}

// RequestBuilder assembles payment-initiation requests.
type RequestBuilder struct {
	settings  Settings
	items     *ItemMapper
	countries outbound.CountryLookupPort
}

// NewRequestBuilder creates a request builder.
func NewRequestBuilder(settings Settings, items *ItemMapper, countries outbound.CountryLookupPort) *RequestBuilder {
	if items == nil {
		items = NewItemMapper(nil)
	}
	return &RequestBuilder{settings: settings, items: items, countries: countries}
}

// Build returns the payment request for order. Every webhook subscription
// carries authKey. The only errors are an unsupported currency, an invalid
// line quantity or an unusable callback URL.
func (b *RequestBuilder) Build(order *model.Order, urls model.CheckoutURLs, authKey string) (*model.NetsPaymentRequest, error) {
	code, err := CurrencyCode(order.CurrencyCode)
	if err != nil {
		return nil, err
	}

	if err := ValidateLines(order.Lines); err != nil {
		return nil, err
	}

	callbackURL, err := ForceHTTPS(urls.CallbackURL)
	if err != nil {
		return nil, fmt.Errorf("callback url: %w", err)
	}

	items := b.items.MapItems(order)

	req := &model.NetsPaymentRequest{
		Order: model.NetsOrder{
			Items:     items,
			Amount:    OrderAmount(items),
			Currency:  code,
			Reference: order.Reference(),
		},
		Checkout: model.NetsCheckout{
			Charge:           b.settings.AutoCapture,
			IntegrationType:  model.NetsIntegrationHostedPage,
			CancelURL:        urls.CancelURL,
			ReturnURL:        urls.ContinueURL,
			TermsURL:         b.settings.TermsURL,
			MerchantTermsURL: b.settings.MerchantTermsURL,
			Appearance: &model.NetsAppearance{
				DisplayOptions: model.NetsDisplayOptions{
					ShowMerchantName: true,
					ShowOrderSummary: true,
				},
			},
			MerchantHandlesConsumerData: true,
			Consumer:                    BuildConsumer(order, b.settings, b.countries),
		},
		Notifications: &model.NetsNotifications{
			Webhooks: make([]model.NetsWebhook, 0, len(webhookEvents)),
		},
	}

	for _, event := range webhookEvents {
		req.Notifications.Webhooks = append(req.Notifications.Webhooks, model.NetsWebhook{
			EventName:     event,
			URL:           callbackURL,
			Authorization: authKey,
		})
	}

	for _, method := range b.settings.AcceptedPaymentMethods() {
		req.PaymentMethodsConfiguration = append(req.PaymentMethodsConfiguration, model.NetsPaymentMethodSelection{
			Name:    method,
			Enabled: true,
		})
	}

	return req, nil
}

// CurrencyCode validates code against ISO 4217 and returns its canonical form.
func CurrencyCode(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return unit.String(), nil
}

// ForceHTTPS rewrites raw to the https scheme. A port that was the default
// for the original scheme is dropped; any other port is kept.
func ForceHTTPS(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidCallbackURL, raw)
	}

	port := u.Port()
	if port == "" || isDefaultPort(u.Scheme, port) {
		u.Host = u.Hostname()
		if strings.Contains(u.Host, ":") {
			u.Host = "[" + u.Host + "]"
		}
	} else {
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	u.Scheme = "https"

	return u.String(), nil
}

func isDefaultPort(scheme, port string) bool {
	switch strings.ToLower(scheme) {
	case "http":
		return port == "80"
	case "https":
		return port == "443"
	}
	return false
}
