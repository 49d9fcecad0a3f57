package reference

import (
	"encoding/base64"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleToken() model.PendingOrder {
	code := "VERANO10"
	return model.PendingOrder{
		UserID: "user_2abc",
		Items: []model.LineItem{
			{ID: "42", Title: "Mate de calabaza", UnitPrice: 2500, Quantity: 2, PictureURL: "https://cdn.example/mate.png"},
			{ID: "7", Title: "Bombilla", UnitPrice: 899.99, Quantity: 1},
		},
		Subtotal:   5899.99,
		Discount:   589.99,
		CouponCode: &code,
		Total:      5310,
		ShippingAddress: model.ShippingAddress{
			FullName:   "Ana Paz",
			Street:     "Av. Siempre Viva 742",
			City:       "Montevideo",
			PostalCode: "11200",
			Country:    "UY",
		},
		DeliveryMethod: "envio",
		Payer:          model.Payer{Name: "Ana Paz", Email: "ana@example.com"},
		CreatedAt:      time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	token := sampleToken()

	external, err := Encode("order_1710000000000_abcd1234", token)
	require.NoError(t, err)

	ref, err := Decode(external)
	require.NoError(t, err)
	assert.Equal(t, "order_1710000000000_abcd1234", ref.ID)
	require.NotNil(t, ref.Token)
	assert.Equal(t, token, *ref.Token)
}

func TestRoundTripWithoutCoupon(t *testing.T) {
	token := sampleToken()
	token.CouponCode = nil
	token.Discount = 0
	token.Total = token.Subtotal

	external, err := Encode("order_1_deadbeef", token)
	require.NoError(t, err)

	ref, err := Decode(external)
	require.NoError(t, err)
	assert.Equal(t, token, *ref.Token)
}

func TestDecodeSplitsOnFirstSeparator(t *testing.T) {
	ref, err := Decode("order_1_x|not|base64")
	assert.Equal(t, "order_1_x", ref.ID)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Nil(t, ref.Token)
}

func TestDecodeAcceptsUnpaddedBase64(t *testing.T) {
	payload := base64.RawStdEncoding.EncodeToString([]byte(`{"user_id":"u1","total":49.9}`))

	ref, err := Decode("order_171_abc|" + payload)
	require.NoError(t, err)
	require.NotNil(t, ref.Token)
	assert.Equal(t, "u1", ref.Token.UserID)
	assert.InDelta(t, 49.9, ref.Token.Total, 1e-9)
}

func TestDecodeMissingPayload(t *testing.T) {
	cases := []string{"order_171_abc", "order_171_abc|", "order_171_abc|   "}

	for _, external := range cases {
		ref, err := Decode(external)
		assert.ErrorIs(t, err, ErrMissingPayload, external)
		assert.Equal(t, "order_171_abc", ref.ID)
		assert.Nil(t, ref.Token)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("not json"))

	ref, err := Decode("order_171_abc|" + payload)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Nil(t, ref.Token)
}

func TestDecodeEmptyReference(t *testing.T) {
	ref, err := Decode("")
	assert.ErrorIs(t, err, ErrMissingPayload)
	assert.Empty(t, ref.ID)
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1710000000123)
	id := NewID(now)

	assert.Regexp(t, regexp.MustCompile(`^order_1710000000123_[0-9a-f]{8}$`), id)
	assert.False(t, strings.Contains(id, separator))
	assert.NotEqual(t, id, NewID(now))
}
