package payment

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/checkout/internal/model"
)

const chargeEventBody = `{
	"id": "evt-1",
	"merchantId": 100017120,
	"timestamp": "2024-05-01T10:00:00.0000+00:00",
	"event": "payment.charge.created.v2",
	"data": {"paymentId": "pay-1", "chargeId": "chg-1", "unknownField": true}
}`

func webhookHeader(auth string) http.Header {
	h := http.Header{}
	if auth != "" {
		h.Set(AuthorizationHeader, auth)
	}
	return h
}

// countingDecoder counts how often the body is parsed.
type countingDecoder struct {
	calls int
}

func (d *countingDecoder) decode(body []byte) (*model.NetsWebhookEvent, error) {
	d.calls++
	return DecodeEvent(body)
}

func TestCallback_Authentication(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"missing header", "", ErrMissingAuthorization},
		{"mismatch", "wrong-secret", ErrAuthorizationMismatch},
		{"case differs", "SECRET-1", ErrAuthorizationMismatch},
		{"exact match", "secret-1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := &countingDecoder{}
			cb := NewCallback(webhookHeader(tt.header), strings.NewReader(chargeEventBody), WithDecoder(dec.decode))

			event, err := cb.Event("secret-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				assert.Equal(t, 0, dec.calls, "body must not be parsed before authentication")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "evt-1", event.ID)
			assert.Equal(t, model.NetsEventChargeCreated, event.Event)
			assert.Equal(t, "pay-1", event.DataString("paymentId"))
			assert.Equal(t, "chg-1", event.DataString("chargeId"))
		})
	}
}

func TestCallback_ParsesOnce(t *testing.T) {
	dec := &countingDecoder{}
	cb := NewCallback(webhookHeader("secret-1"), strings.NewReader(chargeEventBody), WithDecoder(dec.decode))

	first, err := cb.Event("secret-1")
	require.NoError(t, err)
	second, err := cb.Event("secret-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, dec.calls)
}

func TestCallback_RejectionIsCached(t *testing.T) {
	cb := NewCallback(webhookHeader("wrong"), strings.NewReader(chargeEventBody))

	_, err := cb.Event("secret-1")
	assert.ErrorIs(t, err, ErrAuthorizationMismatch)

	_, err = cb.Event("secret-1")
	assert.ErrorIs(t, err, ErrAuthorizationMismatch)
}

func TestCallback_BadPayloads(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		_, err := NewCallback(webhookHeader("k"), strings.NewReader("  ")).Event("k")
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("nil body", func(t *testing.T) {
		_, err := NewCallback(webhookHeader("k"), nil).Event("k")
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := NewCallback(webhookHeader("k"), strings.NewReader("{not json")).Event("k")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("missing event name", func(t *testing.T) {
		_, err := NewCallback(webhookHeader("k"), strings.NewReader(`{"id":"x","data":{}}`)).Event("k")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("no stored secret", func(t *testing.T) {
		_, err := NewCallback(webhookHeader("k"), strings.NewReader(chargeEventBody)).Event("")
		assert.ErrorIs(t, err, ErrAuthorizationMismatch)
	})
}
