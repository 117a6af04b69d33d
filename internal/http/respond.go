package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/cart"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/checkout"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/payment"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondDomainError maps the service-layer sentinels onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body so internals never leak.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound), errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, menu.ErrItemNotFound), errors.Is(err, menu.ErrCanteenNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cart.ErrCanteenMismatch):
		respondError(w, http.StatusConflict, "canteen_mismatch", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, orders.ErrNotPayable):
		respondError(w, http.StatusConflict, "not_payable", err.Error())
	case errors.Is(err, orders.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, payment.ErrSignatureMismatch):
		respondError(w, http.StatusBadRequest, "signature_mismatch", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, auth.ErrDuplicateID):
		respondError(w, http.StatusConflict, "already_registered", err.Error())
	default:
		logrus.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
