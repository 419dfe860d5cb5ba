package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutOrder is the persisted form of an order taken to checkout.
// The order itself is kept as a JSON snapshot; transaction state lives in
// its own columns so it can be updated without rewriting the snapshot.
type CheckoutOrder struct {
	OrderID          string          `gorm:"primaryKey;type:varchar(64)"`
	Snapshot         string          `gorm:"type:jsonb;not null"`
	TransactionID    string          `gorm:"type:varchar(64);index"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(32)"`
	AmountAuthorized decimal.Decimal `gorm:"type:numeric(18,2)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for CheckoutOrder.
func (CheckoutOrder) TableName() string {
	return "netseasy_orders"
}

// TransactionMetadata is one metadata value of an order's transaction.
type TransactionMetadata struct {
	OrderID   string `gorm:"primaryKey;type:varchar(64)"`
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for TransactionMetadata.
func (TransactionMetadata) TableName() string {
	return "netseasy_transaction_metadata"
}
