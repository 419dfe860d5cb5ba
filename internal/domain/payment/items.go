package payment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uniedit/checkout/internal/model"
)

// ReferenceFunc generates opaque references for adjustments without a business key.
type ReferenceFunc func() string

func newReference() string {
	return uuid.NewString()
}

// ItemMapper maps an order's monetary structure into gateway order items.
type ItemMapper struct {
	newRef ReferenceFunc
}

// NewItemMapper creates an item mapper. A nil ref uses random UUIDs.
func NewItemMapper(ref ReferenceFunc) *ItemMapper {
	if ref == nil {
		ref = newReference
	}
	return &ItemMapper{newRef: ref}
}

// MapItems returns the gateway items for order in a fixed order: product
// lines, shipping, then the adjustments of the subtotal price, the total
// price and the transaction amount. Adjustments on different totals are
// mapped independently.
func (m *ItemMapper) MapItems(order *model.Order) []model.NetsOrderItem {
	items := make([]model.NetsOrderItem, 0, len(order.Lines)+1)

	for _, line := range order.Lines {
		items = append(items, lineItem(line))
	}

	if item, ok := shippingItem(order.Shipping); ok {
		items = append(items, item)
	}

	for _, adjustments := range [][]model.Adjustment{
		order.SubtotalPrice.Adjustments,
		order.TotalPrice.Adjustments,
		order.TransactionAmount.Adjustments,
	} {
		for _, adj := range adjustments {
			items = append(items, m.adjustmentItem(adj, order.TaxRate))
		}
	}

	return items
}

// OrderAmount is the order amount the gateway expects for items.
func OrderAmount(items []model.NetsOrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.GrossTotalAmount
	}
	return total
}

// ValidateLines rejects product lines whose quantity is not a whole number of at least one.
func ValidateLines(lines []model.OrderLine) error {
	for i, line := range lines {
		q := line.Quantity
		if !q.IsInteger() || q.LessThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: line %d (%s) has quantity %s", ErrInvalidQuantity, i, line.SKU, q.String())
		}
	}
	return nil
}

// lineItem derives the totals from the rounded unit price so that
// net = unit * quantity and gross = net + tax hold exactly.
func lineItem(line model.OrderLine) model.NetsOrderItem {
	quantity := line.Quantity.IntPart()
	unitPrice := ToMinorUnits(line.UnitPrice.WithoutTax)
	net := unitPrice * quantity
	tax := ToMinorUnits(line.TotalPrice.Tax)
	return model.NetsOrderItem{
		Reference:        line.SKU,
		Name:             line.Name,
		Quantity:         quantity,
		Unit:             model.NetsUnitPieces,
		UnitPrice:        unitPrice,
		TaxRate:          taxRateBasisPoints(line.TaxRate),
		TaxAmount:        tax,
		GrossTotalAmount: net + tax,
		NetTotalAmount:   net,
	}
}

func shippingItem(shipping model.ShippingInfo) (model.NetsOrderItem, bool) {
	if shipping.Method == nil {
		return model.NetsOrderItem{}, false
	}

	net := ToMinorUnits(shipping.TotalPrice.WithoutTax)
	tax := ToMinorUnits(shipping.TotalPrice.Tax)
	return model.NetsOrderItem{
		Reference:        shipping.Method.SKU,
		Name:             shipping.Method.Name,
		Quantity:         1,
		Unit:             model.NetsUnitPieces,
		UnitPrice:        net,
		TaxRate:          taxRateBasisPoints(shipping.TaxRate),
		TaxAmount:        tax,
		GrossTotalAmount: net + tax,
		NetTotalAmount:   net,
	}, true
}

// adjustmentItem dispatches on the adjustment kind. Unknown kinds are
// mapped like generic amount adjustments when they carry an amount and
// like generic price adjustments otherwise.
func (m *ItemMapper) adjustmentItem(adj model.Adjustment, orderTaxRate decimal.Decimal) model.NetsOrderItem {
	switch adj.Kind {
	case model.AdjustmentDiscount:
		return priceAdjustmentItem(adj.DiscountID, adj.Name, adj.Price)
	case model.AdjustmentPrice:
		return priceAdjustmentItem(m.newRef(), adj.Name, adj.Price)
	case model.AdjustmentGiftCard:
		return amountAdjustmentItem(adj.GiftCardID, adj.GiftCardCode, adj.Amount, orderTaxRate)
	case model.AdjustmentAmount:
		return amountAdjustmentItem(m.newRef(), adj.Name, adj.Amount, orderTaxRate)
	default:
		if !adj.Amount.IsZero() {
			return amountAdjustmentItem(m.newRef(), adj.Name, adj.Amount, orderTaxRate)
		}
		return priceAdjustmentItem(m.newRef(), adj.Name, adj.Price)
	}
}

func priceAdjustmentItem(ref, name string, price model.Price) model.NetsOrderItem {
	net := ToMinorUnits(price.WithoutTax)
	tax := ToMinorUnits(price.Tax)
	return model.NetsOrderItem{
		Reference:        ref,
		Name:             name,
		Quantity:         1,
		Unit:             model.NetsUnitPieces,
		UnitPrice:        net,
		TaxRate:          ratioTaxRate(price.Tax, price.WithoutTax),
		TaxAmount:        tax,
		GrossTotalAmount: net + tax,
		NetTotalAmount:   net,
	}
}

// amountAdjustmentItem has no tax split; the whole amount is both gross and net.
func amountAdjustmentItem(ref, name string, amount, orderTaxRate decimal.Decimal) model.NetsOrderItem {
	minor := ToMinorUnits(amount)
	return model.NetsOrderItem{
		Reference:        ref,
		Name:             name,
		Quantity:         1,
		Unit:             model.NetsUnitPieces,
		UnitPrice:        minor,
		TaxRate:          taxRateBasisPoints(orderTaxRate),
		GrossTotalAmount: minor,
		NetTotalAmount:   minor,
	}
}
