package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consumerSettings() Settings {
	return Settings{
		BillingCompanyPropertyAlias:         "company",
		BillingPhonePropertyAlias:           "phone",
		ShippingAddressLine1PropertyAlias:   "line1",
		ShippingAddressLine2PropertyAlias:   "line2",
		ShippingAddressZipCodePropertyAlias: "zip",
		ShippingAddressCityPropertyAlias:    "city",
	}
}

func TestBuildConsumer_PrivatePerson(t *testing.T) {
	order := testOrder()

	consumer := BuildConsumer(order, consumerSettings(), nil)

	require.NotNil(t, consumer.PrivatePerson)
	assert.Nil(t, consumer.Company)
	assert.Equal(t, "Jane", consumer.PrivatePerson.FirstName)
	assert.Equal(t, "Doe", consumer.PrivatePerson.LastName)
	assert.Equal(t, "cust-1", consumer.Reference)
	assert.Equal(t, "jane@example.com", consumer.Email)
}

func TestBuildConsumer_Company(t *testing.T) {
	order := testOrder()
	order.Properties["company"] = "Acme Inc"

	consumer := BuildConsumer(order, consumerSettings(), nil)

	require.NotNil(t, consumer.Company)
	assert.Nil(t, consumer.PrivatePerson)
	assert.Equal(t, "Acme Inc", consumer.Company.Name)
	assert.Equal(t, "Jane", consumer.Company.Contact.FirstName)
	assert.Equal(t, "Doe", consumer.Company.Contact.LastName)

	t.Run("blank company is private", func(t *testing.T) {
		order.Properties["company"] = "   "
		consumer := BuildConsumer(order, consumerSettings(), nil)
		assert.Nil(t, consumer.Company)
		assert.NotNil(t, consumer.PrivatePerson)
	})
}

func TestBuildConsumer_ShippingAddress(t *testing.T) {
	countries := countryTable{"DK": "DNK"}

	t.Run("all aliases configured", func(t *testing.T) {
		order := testOrder()
		order.Shipping.CountryCode = "DK"
		order.Properties["line1"] = "Main Street 1"
		order.Properties["line2"] = "2nd floor"
		order.Properties["zip"] = "2100"
		order.Properties["city"] = "Copenhagen"

		addr := BuildConsumer(order, consumerSettings(), countries).ShippingAddress

		require.NotNil(t, addr)
		assert.Equal(t, "Main Street 1", addr.AddressLine1)
		assert.Equal(t, "2nd floor", addr.AddressLine2)
		assert.Equal(t, "2100", addr.PostalCode)
		assert.Equal(t, "Copenhagen", addr.City)
		assert.Equal(t, "DNK", addr.Country)
	})

	t.Run("partial aliases keep empty fields", func(t *testing.T) {
		order := testOrder()
		order.Properties["line1"] = "Main Street 1"
		order.Properties["city"] = "Copenhagen"
		settings := consumerSettings()
		settings.ShippingAddressLine2PropertyAlias = ""
		settings.ShippingAddressZipCodePropertyAlias = ""

		addr := BuildConsumer(order, settings, countries).ShippingAddress

		require.NotNil(t, addr)
		assert.Equal(t, "Main Street 1", addr.AddressLine1)
		assert.Equal(t, "", addr.AddressLine2)
		assert.Equal(t, "", addr.PostalCode)
		assert.Equal(t, "Copenhagen", addr.City)
		assert.Equal(t, "", addr.Country)
	})

	t.Run("unknown country omitted", func(t *testing.T) {
		order := testOrder()
		order.Shipping.CountryCode = "ZZ"
		assert.Equal(t, "", BuildConsumer(order, consumerSettings(), countries).ShippingAddress.Country)
	})
}

func TestBuildConsumer_Phone(t *testing.T) {
	order := testOrder()
	order.Properties["phone"] = "+45 12 34-56 (78)"

	phone := BuildConsumer(order, consumerSettings(), nil).PhoneNumber

	require.NotNil(t, phone)
	assert.Equal(t, "+45", phone.Prefix)
	assert.Equal(t, "12345678", phone.Number)

	t.Run("no alias", func(t *testing.T) {
		settings := consumerSettings()
		settings.BillingPhonePropertyAlias = ""
		assert.Nil(t, BuildConsumer(order, settings, nil).PhoneNumber)
	})
}

func TestParsePhone(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		prefix string
		number string
	}{
		{"plain", "+4512345678", "+45", "12345678"},
		{"formatted", "+45 (123) 456-78", "+45", "12345678"},
		{"one digit calling code keeps fixed split", "+15551234567", "+15", "551234567"},
		{"too short", "1234", "", ""},
		{"missing plus", "4512345678", "", ""},
		{"letters", "+45ABCDEFGH", "", ""},
		{"too long", "+1234567890123456789", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone := ParsePhone(tt.raw)
			if tt.prefix == "" {
				assert.Nil(t, phone)
				return
			}
			require.NotNil(t, phone)
			assert.Equal(t, tt.prefix, phone.Prefix)
			assert.Equal(t, tt.number, phone.Number)
		})
	}
}
