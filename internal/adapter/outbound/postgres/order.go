package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/outbound"
	"github.com/uniedit/checkout/internal/utils/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderStore implements outbound.OrderStorePort.
type orderStore struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewOrderStore creates a new order store adapter.
func NewOrderStore(db *gorm.DB, m *metrics.Metrics) outbound.OrderStorePort {
	return &orderStore{db: db, metrics: m}
}

// AutoMigrate creates the order store tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.CheckoutOrder{}, &model.TransactionMetadata{})
}

func (s *orderStore) SaveOrder(ctx context.Context, order *model.Order) error {
	defer s.observe("save_order", time.Now())

	snapshot, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order snapshot: %w", err)
	}

	record := &model.CheckoutOrder{
		OrderID:  order.ID,
		Snapshot: string(snapshot),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"snapshot", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *orderStore) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	defer s.observe("get_order", time.Now())

	var record model.CheckoutOrder
	err := s.db.WithContext(ctx).First(&record, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var order model.Order
	if err := json.Unmarshal([]byte(record.Snapshot), &order); err != nil {
		return nil, fmt.Errorf("unmarshal order snapshot: %w", err)
	}
	order.Transaction = model.TransactionInfo{
		TransactionID:    record.TransactionID,
		AmountAuthorized: record.AmountAuthorized,
		PaymentStatus:    record.PaymentStatus,
	}

	var rows []model.TransactionMetadata
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get transaction metadata: %w", err)
	}
	order.Metadata = make(map[string]string, len(rows))
	for _, row := range rows {
		order.Metadata[row.Key] = row.Value
	}

	return &order, nil
}

func (s *orderStore) SetMetadata(ctx context.Context, orderID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	defer s.observe("set_metadata", time.Now())

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.TransactionMetadata, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, model.TransactionMetadata{OrderID: orderID, Key: k, Value: values[k]})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("set transaction metadata: %w", err)
	}
	return nil
}

func (s *orderStore) ApplyTransaction(ctx context.Context, orderID string, update *model.TransactionUpdate) error {
	if update == nil {
		return nil
	}
	defer s.observe("apply_transaction", time.Now())

	updates := map[string]interface{}{}
	if update.TransactionID != "" {
		updates["transaction_id"] = update.TransactionID
	}
	if update.PaymentStatus != "" {
		updates["payment_status"] = update.PaymentStatus
	}
	if update.AmountAuthorized != nil {
		updates["amount_authorized"] = *update.AmountAuthorized
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).
		Model(&model.CheckoutOrder{}).
		Where("order_id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("apply transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("apply transaction: order %s not found", orderID)
	}
	return nil
}

func (s *orderStore) observe(operation string, start time.Time) {
	s.metrics.RecordDBQuery(operation, time.Since(start))
}

// Compile-time check
var _ outbound.OrderStorePort = (*orderStore)(nil)
