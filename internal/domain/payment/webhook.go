package payment

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/uniedit/checkout/internal/model"
)

// AuthorizationHeader carries the webhook secret on inbound callbacks.
const AuthorizationHeader = "Authorization"

// EventDecoder parses an authenticated webhook body.
type EventDecoder func(body []byte) (*model.NetsWebhookEvent, error)

// Callback is one inbound webhook invocation. The body is read, the
// Authorization header checked and the event decoded once; every later
// call to Event returns the same outcome.
type Callback struct {
	header http.Header
	body   io.Reader
	decode EventDecoder

	once  sync.Once
	event *model.NetsWebhookEvent
	err   error
}

// CallbackOption configures a Callback.
type CallbackOption func(*Callback)

// WithDecoder replaces the JSON event decoder.
func WithDecoder(decode EventDecoder) CallbackOption {
	return func(c *Callback) {
		c.decode = decode
	}
}

// NewCallback wraps the header and single-use body of an inbound webhook.
func NewCallback(header http.Header, body io.Reader, opts ...CallbackOption) *Callback {
	c := &Callback{
		header: header,
		body:   body,
		decode: DecodeEvent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Event authenticates the callback against authKey and returns the parsed
// event. Only the first call reads the body; its outcome, including any
// error, is returned to every subsequent caller.
func (c *Callback) Event(authKey string) (*model.NetsWebhookEvent, error) {
	c.once.Do(func() {
		c.event, c.err = c.load(authKey)
	})
	return c.event, c.err
}

func (c *Callback) load(authKey string) (*model.NetsWebhookEvent, error) {
	if c.body == nil {
		return nil, ErrEmptyPayload
	}
	body, err := io.ReadAll(c.body)
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyPayload
	}

	if err := Authenticate(c.header.Get(AuthorizationHeader), authKey); err != nil {
		return nil, err
	}

	return c.decode(body)
}

// Authenticate checks a received Authorization value against the secret
// issued when the payment was created.
func Authenticate(received, expected string) error {
	if received == "" {
		return ErrMissingAuthorization
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
		return ErrAuthorizationMismatch
	}
	return nil
}

// DecodeEvent parses a webhook body. Unknown fields are ignored.
func DecodeEvent(body []byte) (*model.NetsWebhookEvent, error) {
	var event model.NetsWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedPayload)
	}
	return &event, nil
}
