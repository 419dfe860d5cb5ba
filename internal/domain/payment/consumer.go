package payment

import (
	"regexp"
	"strings"

	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/outbound"
)

var (
	phonePattern  = regexp.MustCompile(`^\+[0-9]{7,18}$`)
	phoneReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// phonePrefixLength is the fixed split between calling code and number.
// Calling codes of other lengths are split incorrectly.
const phonePrefixLength = 3

// BuildConsumer builds the consumer profile of order from the configured
// property aliases. Missing aliases or properties yield empty strings.
func BuildConsumer(order *model.Order, settings Settings, countries outbound.CountryLookupPort) *model.NetsConsumer {
	property := func(alias string) string {
		return order.Property(strings.TrimSpace(alias))
	}

	var country string
	if countries != nil && order.Shipping.CountryCode != "" {
		country, _ = countries.ThreeLetterCode(order.Shipping.CountryCode)
	}

	consumer := &model.NetsConsumer{
		Reference: order.Customer.Reference,
		Email:     order.Customer.Email,
		ShippingAddress: &model.NetsAddress{
			AddressLine1: property(settings.ShippingAddressLine1PropertyAlias),
			AddressLine2: property(settings.ShippingAddressLine2PropertyAlias),
			PostalCode:   property(settings.ShippingAddressZipCodePropertyAlias),
			City:         property(settings.ShippingAddressCityPropertyAlias),
			Country:      country,
		},
	}

	// A fully configured alias set replaces the fallback address as a whole.
	if settings.shippingAliasesComplete() {
		consumer.ShippingAddress = &model.NetsAddress{
			AddressLine1: order.Properties[strings.TrimSpace(settings.ShippingAddressLine1PropertyAlias)],
			AddressLine2: order.Properties[strings.TrimSpace(settings.ShippingAddressLine2PropertyAlias)],
			PostalCode:   order.Properties[strings.TrimSpace(settings.ShippingAddressZipCodePropertyAlias)],
			City:         order.Properties[strings.TrimSpace(settings.ShippingAddressCityPropertyAlias)],
			Country:      country,
		}
	}

	consumer.PhoneNumber = ParsePhone(property(settings.BillingPhonePropertyAlias))

	name := model.NetsPrivatePerson{
		FirstName: order.Customer.FirstName,
		LastName:  order.Customer.LastName,
	}
	if company := property(settings.BillingCompanyPropertyAlias); strings.TrimSpace(company) != "" {
		consumer.Company = &model.NetsCompany{Name: company, Contact: name}
	} else {
		consumer.PrivatePerson = &name
	}

	return consumer
}

// ParsePhone normalizes raw and splits it into prefix and number. It
// returns nil when the normalized value is not an international number.
func ParsePhone(raw string) *model.NetsPhone {
	phone := phoneReplacer.Replace(raw)
	if !phonePattern.MatchString(phone) {
		return nil
	}
	return &model.NetsPhone{
		Prefix: phone[:phonePrefixLength],
		Number: phone[phonePrefixLength:],
	}
}
