package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/checkout"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

type OrderHandler struct {
	checkout *checkout.Service
	orders   *orders.Service
}

func NewOrderHandler(checkoutSvc *checkout.Service, ordersSvc *orders.Service) *OrderHandler {
	return &OrderHandler{checkout: checkoutSvc, orders: ordersSvc}
}

type VerifyPaymentRequestDTO struct {
	OrderID           string `json:"order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// Checkout freezes the student's cart into a payment-pending order. The cart
// survives until the payment is verified, so an abandoned gateway flow loses
// nothing.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	result, err := h.checkout.Checkout(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	order, err := h.checkout.VerifyPayment(r.Context(), req.OrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	list, err := h.orders.ListMyOrders(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// GetOrder lets a student read only their own orders; staff may read any.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if claims.Role == domain.RoleStudent && order.StudentID != claims.UserID {
		respondError(w, http.StatusForbidden, "forbidden", "not your order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// PendingForCanteen is the crew dashboard feed: every active order for one
// canteen. Crew are pinned to their own canteen; management may query any.
func (h *OrderHandler) PendingForCanteen(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	canteenID := chi.URLParam(r, "canteen_id")

	if claims.Role == domain.RoleCrew && claims.CanteenID != canteenID {
		respondError(w, http.StatusForbidden, "forbidden", "crew may only view their own canteen")
		return
	}

	list, err := h.orders.ListPendingForCanteen(r.Context(), canteenID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status "+req.Status)
		return
	}
	// Older crew clients send REQUESTED to start preparation.
	if status == domain.OrderStatusRequested {
		status = domain.OrderStatusPreparing
	}

	if claims.Role == domain.RoleCrew {
		order, err := h.orders.GetOrder(r.Context(), orderID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if order.CanteenID != claims.CanteenID {
			respondError(w, http.StatusForbidden, "forbidden", "crew may only update their own canteen's orders")
			return
		}
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
