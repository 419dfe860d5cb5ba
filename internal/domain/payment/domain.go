package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/uniedit/checkout/internal/model"
	"github.com/uniedit/checkout/internal/port/outbound"
	"github.com/uniedit/checkout/internal/utils/logger"
	"github.com/uniedit/checkout/internal/utils/random"
	"go.uber.org/zap"
)

const webhookSecretLength = 32

// PaymentDomain drives a hosted-checkout payment through its lifecycle.
//
// Gateway and store failures never surface as errors: they are logged and
// an empty result is returned so the calling order flow can continue.
type PaymentDomain interface {
	// CreatePayment creates the gateway payment for order and returns the
	// hosted checkout form. Only input and configuration errors are returned,
	// along with ErrPaymentExists for an order whose payment is past initialization.
	CreatePayment(ctx context.Context, order *model.Order, urls model.CheckoutURLs) (*model.PaymentForm, error)

	// GetPayment returns the gateway view of a payment, or nil.
	GetPayment(ctx context.Context, paymentID string) *model.NetsPaymentDetails

	// GetTransaction returns the stored order with its transaction state.
	GetTransaction(ctx context.Context, orderID string) (*model.Order, error)

	// FetchPaymentStatus refreshes the order's status from the gateway.
	FetchPaymentStatus(ctx context.Context, orderID string) *model.ApiResult

	// CancelPayment cancels the authorized amount of the order's payment.
	CancelPayment(ctx context.Context, orderID string) *model.ApiResult

	// CapturePayment charges the authorized amount of the order's payment.
	CapturePayment(ctx context.Context, orderID string) *model.ApiResult

	// RefundPayment refunds the order's charge.
	RefundPayment(ctx context.Context, orderID string) *model.ApiResult

	// ProcessCallback applies an inbound webhook to the order.
	ProcessCallback(ctx context.Context, orderID string, cb *Callback) *model.CallbackResult
}

type paymentDomain struct {
	gateway   outbound.GatewayPort
	store     outbound.OrderStorePort
	builder   *RequestBuilder
	settings  Settings
	newSecret func() (string, error)
	logger    *zap.Logger
}

// NewPaymentDomain creates a new payment domain service.
func NewPaymentDomain(
	gateway outbound.GatewayPort,
	store outbound.OrderStorePort,
	countries outbound.CountryLookupPort,
	settings Settings,
	logger *zap.Logger,
) PaymentDomain {
	return &paymentDomain{
		gateway:   gateway,
		store:     store,
		builder:   NewRequestBuilder(settings, NewItemMapper(nil), countries),
		settings:  settings,
		newSecret: newWebhookSecret,
		logger:    logger.Named("payment"),
	}
}

func newWebhookSecret() (string, error) {
	return random.String(webhookSecretLength, random.CharsetAlphanumeric)
}

// --- Checkout ---

func (d *paymentDomain) CreatePayment(ctx context.Context, order *model.Order, urls model.CheckoutURLs) (*model.PaymentForm, error) {
	if _, err := CurrencyCode(order.CurrencyCode); err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, d.logger).With(zap.String("order_id", order.ID))
	form := &model.PaymentForm{
		CheckoutKey: d.settings.CheckoutKey(),
		MetaData:    map[string]string{model.MetaPaymentID: ""},
	}

	authKey, err := d.newSecret()
	if err != nil {
		log.Error("failed to generate webhook secret", zap.Error(err))
		return form, nil
	}

	req, err := d.builder.Build(order, urls, authKey)
	if err != nil {
		return nil, err
	}
	if expected := ToMinorUnits(order.TransactionAmount.Value); expected != 0 && expected != req.Order.Amount {
		log.Warn("order amount differs from mapped items",
			zap.Int64("transaction_amount", expected),
			zap.Int64("items_amount", req.Order.Amount),
		)
	}

	existing, err := d.store.GetOrder(ctx, order.ID)
	if err != nil {
		log.Error("failed to load order", zap.Error(err))
		return form, nil
	}
	if existing != nil && paymentStarted(existing) {
		log.Warn("checkout refused, payment already in progress",
			zap.String("payment_id", existing.Transaction.TransactionID),
			zap.String("status", string(existing.Transaction.PaymentStatus)),
		)
		return nil, fmt.Errorf("%w: status %s", ErrPaymentExists, existing.Transaction.PaymentStatus)
	}

	// The secret must be stored before the gateway can call back with it.
	if err := d.store.SaveOrder(ctx, order); err != nil {
		log.Error("failed to save order", zap.Error(err))
		return form, nil
	}
	if err := d.store.SetMetadata(ctx, order.ID, map[string]string{model.MetaWebhookAuthKey: authKey}); err != nil {
		log.Error("failed to store webhook secret", zap.Error(err))
		return form, nil
	}
	form.MetaData[model.MetaWebhookAuthKey] = authKey

	result, err := d.gateway.CreatePayment(ctx, req)
	if err != nil {
		log.Error("failed to create payment", zap.Error(err))
		return form, nil
	}

	paymentID := result.PaymentID
	log = log.With(zap.String("payment_id", paymentID))
	form.PaymentID = paymentID
	form.MetaData[model.MetaPaymentID] = paymentID

	d.apply(ctx, order.ID, &model.ApiResult{
		TransactionInfo: &model.TransactionUpdate{
			TransactionID: paymentID,
			PaymentStatus: model.PaymentStatusInitialized,
		},
		MetaData: map[string]string{model.MetaPaymentID: paymentID},
	})

	details, err := d.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		log.Error("failed to read back payment", zap.Error(err))
		return form, nil
	}

	checkoutURL, err := withLanguage(details.Payment.Checkout.URL, d.settings.Language)
	if err != nil {
		log.Error("invalid checkout url", zap.Error(err))
		return form, nil
	}
	form.CheckoutURL = checkoutURL

	log.Info("payment created")
	return form, nil
}

func withLanguage(checkoutURL, language string) (string, error) {
	if checkoutURL == "" || language == "" {
		return checkoutURL, nil
	}
	u, err := url.Parse(checkoutURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("language", language)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *paymentDomain) GetPayment(ctx context.Context, paymentID string) *model.NetsPaymentDetails {
	details, err := d.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		d.logger.Error("failed to get payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil
	}
	return details
}

func (d *paymentDomain) GetTransaction(ctx context.Context, orderID string) (*model.Order, error) {
	return d.loadOrder(ctx, orderID)
}

// --- Lifecycle ---

func (d *paymentDomain) FetchPaymentStatus(ctx context.Context, orderID string) *model.ApiResult {
	order, paymentID, err := d.paymentOrder(ctx, orderID)
	if err != nil {
		d.logger.Error("failed to fetch payment status", zap.String("order_id", orderID), zap.Error(err))
		return &model.ApiResult{}
	}

	details, err := d.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		d.logger.Error("failed to fetch payment status",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return &model.ApiResult{}
	}

	result := &model.ApiResult{
		TransactionInfo: &model.TransactionUpdate{
			TransactionID: paymentID,
			PaymentStatus: ResolveStatus(details.Payment.Summary),
		},
	}
	d.apply(ctx, order.ID, result)
	return result
}

func (d *paymentDomain) CancelPayment(ctx context.Context, orderID string) *model.ApiResult {
	order, paymentID, err := d.paymentOrder(ctx, orderID)
	if err != nil {
		d.logger.Error("failed to cancel payment", zap.String("order_id", orderID), zap.Error(err))
		return &model.ApiResult{}
	}

	if err := d.gateway.CancelPayment(ctx, paymentID, lifecycleAmount(order)); err != nil {
		d.logger.Error("failed to cancel payment",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return &model.ApiResult{}
	}

	result := &model.ApiResult{
		TransactionInfo: &model.TransactionUpdate{
			TransactionID: paymentID,
			PaymentStatus: model.PaymentStatusCancelled,
		},
	}
	d.apply(ctx, order.ID, result)
	return result
}

func (d *paymentDomain) CapturePayment(ctx context.Context, orderID string) *model.ApiResult {
	order, paymentID, err := d.paymentOrder(ctx, orderID)
	if err != nil {
		d.logger.Error("failed to capture payment", zap.String("order_id", orderID), zap.Error(err))
		return &model.ApiResult{}
	}

	charge, err := d.gateway.ChargePayment(ctx, paymentID, lifecycleAmount(order))
	if err == nil && charge.ChargeID == "" {
		err = errors.New("charge without charge id")
	}
	if err != nil {
		d.logger.Error("failed to capture payment",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return &model.ApiResult{}
	}

	result := &model.ApiResult{
		TransactionInfo: &model.TransactionUpdate{
			TransactionID: paymentID,
			PaymentStatus: model.PaymentStatusCaptured,
		},
		MetaData: map[string]string{model.MetaChargeID: charge.ChargeID},
	}
	d.apply(ctx, order.ID, result)
	return result
}

func (d *paymentDomain) RefundPayment(ctx context.Context, orderID string) *model.ApiResult {
	order, paymentID, err := d.paymentOrder(ctx, orderID)
	if err != nil {
		d.logger.Error("failed to refund payment", zap.String("order_id", orderID), zap.Error(err))
		return &model.ApiResult{}
	}

	chargeID := order.Metadata[model.MetaChargeID]
	if chargeID == "" {
		d.logger.Error("failed to refund payment",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.Error(ErrMissingChargeID),
		)
		return &model.ApiResult{}
	}

	refund, err := d.gateway.RefundCharge(ctx, chargeID, order.OrderNumber, lifecycleAmount(order))
	if err != nil {
		d.logger.Error("failed to refund payment",
			zap.String("order_id", order.ID),
			zap.String("charge_id", chargeID),
			zap.Error(err),
		)
		return &model.ApiResult{}
	}

	result := &model.ApiResult{
		TransactionInfo: &model.TransactionUpdate{
			TransactionID: paymentID,
			PaymentStatus: model.PaymentStatusRefunded,
		},
		MetaData: map[string]string{model.MetaRefundID: refund.RefundID},
	}
	d.apply(ctx, order.ID, result)
	return result
}

// --- Webhooks ---

func (d *paymentDomain) ProcessCallback(ctx context.Context, orderID string, cb *Callback) *model.CallbackResult {
	log := logger.WithContext(ctx, d.logger).With(zap.String("order_id", orderID))

	order, err := d.loadOrder(ctx, orderID)
	if err != nil {
		log.Warn("rejected webhook", zap.Error(err))
		return model.BadRequestCallback()
	}

	event, err := cb.Event(order.Metadata[model.MetaWebhookAuthKey])
	if err != nil {
		log.Warn("rejected webhook", zap.Error(err))
		return model.BadRequestCallback()
	}
	log = log.With(zap.String("event", event.Event), zap.String("event_id", event.ID))

	paymentID := event.DataString("paymentId")
	if paymentID == "" {
		log.Warn("ignored webhook without payment id")
		return model.BadRequestCallback()
	}
	if known := order.Transaction.TransactionID; known != "" && known != paymentID {
		log.Warn("ignored webhook for another payment",
			zap.String("payment_id", paymentID),
			zap.String("known_payment_id", known),
		)
		return model.BadRequestCallback()
	}

	meta, err := eventMetadata(event)
	if err != nil {
		log.Warn("ignored webhook", zap.Error(err))
		return model.BadRequestCallback()
	}

	details, err := d.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		log.Error("failed to get payment for webhook", zap.String("payment_id", paymentID), zap.Error(err))
		return model.BadRequestCallback()
	}

	authorized := FromMinorUnits(details.Payment.OrderDetails.Amount)
	update := &model.TransactionUpdate{
		TransactionID:    paymentID,
		AmountAuthorized: &authorized,
		PaymentStatus:    ResolveStatus(details.Payment.Summary),
	}

	if err := d.persist(ctx, orderID, update, meta); err != nil {
		log.Error("failed to apply webhook", zap.Error(err))
		return &model.CallbackResult{StatusCode: http.StatusInternalServerError}
	}

	log.Info("webhook applied", zap.String("payment_status", string(update.PaymentStatus)))
	return &model.CallbackResult{
		StatusCode:      http.StatusOK,
		TransactionInfo: update,
		MetaData:        meta,
	}
}

// eventMetadata extracts the event-specific identifier to store.
func eventMetadata(event *model.NetsWebhookEvent) (map[string]string, error) {
	var field, key string
	switch event.Event {
	case model.NetsEventCheckoutCompleted:
		return nil, nil
	case model.NetsEventChargeCreated:
		field, key = "chargeId", model.MetaChargeID
	case model.NetsEventCancelCreated:
		field, key = "cancelId", model.MetaCancelID
	case model.NetsEventRefundCompleted:
		field, key = "refundId", model.MetaRefundID
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Event)
	}

	id := event.DataString(field)
	if id == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedPayload, field)
	}
	return map[string]string{key: id}, nil
}

// --- Helpers ---

func (d *paymentDomain) loadOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := d.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// paymentStarted reports whether the order's payment has moved past
// initialization. An initialized payment may be replaced by a new checkout.
func paymentStarted(order *model.Order) bool {
	status := order.Transaction.PaymentStatus
	return status != "" && status != model.PaymentStatusInitialized
}

// paymentOrder loads an order that already has a gateway payment.
func (d *paymentDomain) paymentOrder(ctx context.Context, orderID string) (*model.Order, string, error) {
	order, err := d.loadOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	paymentID := order.Transaction.TransactionID
	if paymentID == "" {
		paymentID = order.Metadata[model.MetaPaymentID]
	}
	if paymentID == "" {
		return nil, "", ErrMissingPaymentID
	}
	return order, paymentID, nil
}

// lifecycleAmount is the amount in minor units used for cancel, capture
// and refund: the authorized amount, or the transaction amount before any
// authorization was recorded.
func lifecycleAmount(order *model.Order) int64 {
	amount := order.Transaction.AmountAuthorized
	if amount.IsZero() {
		amount = order.TransactionAmount.Value
	}
	return ToMinorUnits(amount)
}

// apply stores a successful result. Store failures are logged only: the
// gateway has already accepted the change.
func (d *paymentDomain) apply(ctx context.Context, orderID string, result *model.ApiResult) {
	if err := d.persist(ctx, orderID, result.TransactionInfo, result.MetaData); err != nil {
		d.logger.Error("failed to store transaction update", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (d *paymentDomain) persist(ctx context.Context, orderID string, update *model.TransactionUpdate, meta map[string]string) error {
	var errs []error
	if len(meta) > 0 {
		if err := d.store.SetMetadata(ctx, orderID, meta); err != nil {
			errs = append(errs, fmt.Errorf("set metadata: %w", err))
		}
	}
	if update != nil {
		if err := d.store.ApplyTransaction(ctx, orderID, update); err != nil {
			errs = append(errs, fmt.Errorf("apply transaction: %w", err))
		}
	}
	return errors.Join(errs...)
}
