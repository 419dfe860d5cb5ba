package payment

import "strings"

const (
	testBaseURL = "https://test.api.dibspayment.eu"
	liveBaseURL = "https://api.dibspayment.eu"

	testSecretKeyPrefix = "test-secret-key-"
	liveSecretKeyPrefix = "live-secret-key-"
)

// Settings holds the merchant configuration of the gateway integration.
type Settings struct {
	TestMode bool

	TestSecretKey   string
	LiveSecretKey   string
	TestCheckoutKey string
	LiveCheckoutKey string

	// PaymentMethods is a comma separated list of accepted payment methods.
	PaymentMethods string

	BillingCompanyPropertyAlias         string
	BillingPhonePropertyAlias           string
	ShippingAddressLine1PropertyAlias   string
	ShippingAddressLine2PropertyAlias   string
	ShippingAddressZipCodePropertyAlias string
	ShippingAddressCityPropertyAlias    string

	TermsURL         string
	MerchantTermsURL string
	Language         string
	AutoCapture      bool
}

// BaseURL returns the gateway API root for the configured mode.
func (s Settings) BaseURL() string {
	if s.TestMode {
		return testBaseURL
	}
	return liveBaseURL
}

// SecretKey returns the API secret for the configured mode with its mode
// prefix removed.
func (s Settings) SecretKey() string {
	if s.TestMode {
		return strings.TrimPrefix(strings.TrimSpace(s.TestSecretKey), testSecretKeyPrefix)
	}
	return strings.TrimPrefix(strings.TrimSpace(s.LiveSecretKey), liveSecretKeyPrefix)
}

// CheckoutKey returns the public checkout key for the configured mode.
func (s Settings) CheckoutKey() string {
	if s.TestMode {
		return strings.TrimSpace(s.TestCheckoutKey)
	}
	return strings.TrimSpace(s.LiveCheckoutKey)
}

// AcceptedPaymentMethods parses PaymentMethods, dropping blanks.
func (s Settings) AcceptedPaymentMethods() []string {
	var methods []string
	for _, m := range strings.Split(s.PaymentMethods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

func (s Settings) shippingAliasesComplete() bool {
	return strings.TrimSpace(s.ShippingAddressLine1PropertyAlias) != "" &&
		strings.TrimSpace(s.ShippingAddressLine2PropertyAlias) != "" &&
		strings.TrimSpace(s.ShippingAddressZipCodePropertyAlias) != "" &&
		strings.TrimSpace(s.ShippingAddressCityPropertyAlias) != ""
}
