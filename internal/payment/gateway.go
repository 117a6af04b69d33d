// Package payment wraps the Razorpay order/signature contract. Orders are
// created against the gateway and paid in the student's browser; the server
// only ever verifies the returned signature, it never handles card data.
package payment

import (
	"context"
	"errors"
)

var ErrSignatureMismatch = errors.New("payment signature verification failed")

type Gateway interface {
	// CreateOrder registers the amount with the gateway and returns the
	// gateway-side order id used to correlate the browser payment.
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)

	// VerifySignature checks the signature the gateway handed the browser
	// after a successful charge. Returns ErrSignatureMismatch on failure.
	VerifySignature(gatewayOrderID, paymentID, signature string) error

	// KeyID is the public key the browser widget needs.
	KeyID() string

	// TestMode reports whether the gateway is simulated. In test mode the
	// client skips the payment widget and calls verification directly.
	TestMode() bool
}
