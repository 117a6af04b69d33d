package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/cart"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
)

type CartHandler struct {
	carts *cart.Service
	menu  menu.Repository
}

func NewCartHandler(carts *cart.Service, menuRepo menu.Repository) *CartHandler {
	return &CartHandler{carts: carts, menu: menuRepo}
}

type AddItemRequestDTO struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	c, err := h.carts.GetCart(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddItem resolves the menu item server-side so the cart line carries the
// current price and nutrition, not whatever the client claims.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	item, err := h.menu.GetItem(r.Context(), req.ItemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !item.Available {
		respondError(w, http.StatusConflict, "item_unavailable", "item is not available right now")
		return
	}

	c, err := h.carts.AddLine(r.Context(), claims.UserID, *item, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), claims.UserID, itemID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	itemID := chi.URLParam(r, "item_id")

	c, err := h.carts.RemoveLine(r.Context(), claims.UserID, itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	if err := h.carts.ClearCart(r.Context(), claims.UserID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
