package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/uniedit/checkout/internal/model"
)

// --- Mock Implementations ---

type MockGatewayPort struct {
	mock.Mock
}

func (m *MockGatewayPort) CreatePayment(ctx context.Context, req *model.NetsPaymentRequest) (*model.NetsPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NetsPaymentResult), args.Error(1)
}

func (m *MockGatewayPort) GetPayment(ctx context.Context, paymentID string) (*model.NetsPaymentDetails, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NetsPaymentDetails), args.Error(1)
}

func (m *MockGatewayPort) CancelPayment(ctx context.Context, paymentID string, amount int64) error {
	args := m.Called(ctx, paymentID, amount)
	return args.Error(0)
}

func (m *MockGatewayPort) ChargePayment(ctx context.Context, paymentID string, amount int64) (*model.NetsCharge, error) {
	args := m.Called(ctx, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NetsCharge), args.Error(1)
}

func (m *MockGatewayPort) RefundCharge(ctx context.Context, chargeID, invoice string, amount int64) (*model.NetsRefund, error) {
	args := m.Called(ctx, chargeID, invoice, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NetsRefund), args.Error(1)
}

type MockOrderStorePort struct {
	mock.Mock
}

func (m *MockOrderStorePort) SaveOrder(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderStorePort) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderStorePort) SetMetadata(ctx context.Context, orderID string, values map[string]string) error {
	args := m.Called(ctx, orderID, values)
	return args.Error(0)
}

func (m *MockOrderStorePort) ApplyTransaction(ctx context.Context, orderID string, update *model.TransactionUpdate) error {
	args := m.Called(ctx, orderID, update)
	return args.Error(0)
}

// countryTable is a fixed CountryLookupPort.
type countryTable map[string]string

func (c countryTable) ThreeLetterCode(code string) (string, bool) {
	v, ok := c[code]
	return v, ok
}

// --- Fixtures ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(withoutTax, tax string) model.Price {
	wt, tx := dec(withoutTax), dec(tax)
	return model.Price{WithoutTax: wt, Tax: tx, WithTax: wt.Add(tx)}
}

// testOrder is one line of two items at 100.00 with 25% tax.
func testOrder() *model.Order {
	return &model.Order{
		ID:           "order-1",
		OrderNumber:  "ORD-0001",
		CurrencyCode: "DKK",
		TaxRate:      dec("0.25"),
		Lines: []model.OrderLine{
			{
				SKU:        "SKU-1",
				Name:       "Widget",
				Quantity:   dec("2"),
				TaxRate:    dec("0.25"),
				UnitPrice:  price("100.00", "25.00"),
				TotalPrice: price("200.00", "50.00"),
			},
		},
		TransactionAmount: model.AdjustedAmount{Value: dec("250.00")},
		Customer: model.CustomerInfo{
			Reference: "cust-1",
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
		},
		Properties: map[string]string{},
	}
}

func sequentialRefs() ReferenceFunc {
	n := 0
	return func() string {
		n++
		return "ref-" + string(rune('0'+n))
	}
}
