package model

import (
	"github.com/shopspring/decimal"
)

// Order is the checkout order snapshot handed over by the storefront.
// It is read-only to the payment core apart from Transaction and Metadata.
type Order struct {
	ID           string          `json:"id" binding:"required"`
	OrderNumber  string          `json:"order_number"`
	CurrencyCode string          `json:"currency_code" binding:"required"`
	TaxRate      decimal.Decimal `json:"tax_rate"`

	Lines    []OrderLine  `json:"lines"`
	Shipping ShippingInfo `json:"shipping"`
	Customer CustomerInfo `json:"customer"`

	SubtotalPrice     AdjustedPrice  `json:"subtotal_price"`
	TotalPrice        AdjustedPrice  `json:"total_price"`
	TransactionAmount AdjustedAmount `json:"transaction_amount"`

	// Properties is the free-form property bag keyed by alias.
	Properties map[string]string `json:"properties,omitempty"`

	// Transaction and Metadata are owned by the order store.
	Transaction TransactionInfo   `json:"-"`
	Metadata    map[string]string `json:"-"`
}

// Property returns the property stored under alias, or "" when either is missing.
func (o *Order) Property(alias string) string {
	if alias == "" || o.Properties == nil {
		return ""
	}
	return o.Properties[alias]
}

// Reference returns the order reference sent to the gateway.
func (o *Order) Reference() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// OrderLine is one product line of an order.
type OrderLine struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	UnitPrice  Price           `json:"unit_price"`
	TotalPrice Price           `json:"total_price"`
}

// Price is a monetary value split into its tax components.
type Price struct {
	WithoutTax decimal.Decimal `json:"without_tax"`
	Tax        decimal.Decimal `json:"tax"`
	WithTax    decimal.Decimal `json:"with_tax"`
}

// AdjustedPrice is a price total with the adjustments applied to it.
type AdjustedPrice struct {
	Value       Price        `json:"value"`
	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// AdjustedAmount is a plain amount total with the adjustments applied to it.
type AdjustedAmount struct {
	Value       decimal.Decimal `json:"value"`
	Adjustments []Adjustment    `json:"adjustments,omitempty"`
}

// AdjustmentKind discriminates the Adjustment union.
type AdjustmentKind string

const (
	AdjustmentDiscount AdjustmentKind = "discount"
	AdjustmentPrice    AdjustmentKind = "price"
	AdjustmentGiftCard AdjustmentKind = "gift_card"
	AdjustmentAmount   AdjustmentKind = "amount"
)

// Adjustment modifies one of the order totals.
//
// Discount and Price adjustments carry Price; GiftCard and Amount
// adjustments carry Amount. DiscountID is set for discounts, GiftCardID
// and GiftCardCode for gift cards.
type Adjustment struct {
	Kind         AdjustmentKind  `json:"kind"`
	Name         string          `json:"name"`
	DiscountID   string          `json:"discount_id,omitempty"`
	GiftCardID   string          `json:"gift_card_id,omitempty"`
	GiftCardCode string          `json:"gift_card_code,omitempty"`
	Price        Price           `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// ShippingInfo describes the selected shipping method and its cost.
type ShippingInfo struct {
	Method      *ShippingMethod `json:"method,omitempty"`
	TotalPrice  Price           `json:"total_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	CountryCode string          `json:"country_code,omitempty"`
}

// ShippingMethod identifies a resolved shipping method.
type ShippingMethod struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// CustomerInfo carries the customer data of the order.
type CustomerInfo struct {
	Reference string `json:"reference,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
