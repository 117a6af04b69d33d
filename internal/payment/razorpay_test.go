package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder_TestModePrefix(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_demo", "", false)

	id, err := g.CreateOrder(context.Background(), 150, "INR")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "order_test_"))
	assert.True(t, g.TestMode())
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_demo", "", false)

	_, err := g.CreateOrder(context.Background(), 0, "INR")
	assert.Error(t, err)

	_, err = g.CreateOrder(context.Background(), -10, "INR")
	assert.Error(t, err)
}

func TestVerifySignature_Valid(t *testing.T) {
	g := NewRazorpayGateway("rzp_live_key", "topsecret", true)

	sig := sign("topsecret", "order_abc", "pay_xyz")
	assert.NoError(t, g.VerifySignature("order_abc", "pay_xyz", sig))
}

func TestVerifySignature_Mismatch(t *testing.T) {
	g := NewRazorpayGateway("rzp_live_key", "topsecret", true)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"wrong secret", "order_abc", "pay_xyz", sign("othersecret", "order_abc", "pay_xyz")},
		{"wrong order", "order_abc", "pay_xyz", sign("topsecret", "order_def", "pay_xyz")},
		{"wrong payment", "order_abc", "pay_xyz", sign("topsecret", "order_abc", "pay_other")},
		{"garbage", "order_abc", "pay_xyz", "not-a-signature"},
		{"empty", "order_abc", "pay_xyz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.VerifySignature(tt.orderID, tt.paymentID, tt.signature)
			assert.ErrorIs(t, err, ErrSignatureMismatch)
		})
	}
}

func TestVerifySignature_TestModeAcceptsAnything(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_demo", "", false)

	assert.NoError(t, g.VerifySignature("order_test_1", "pay_test_123", "test_signature"))
	assert.ErrorIs(t, g.VerifySignature("order_test_1", "", "test_signature"), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("order_test_1", "pay_test_123", ""), ErrSignatureMismatch)
}
