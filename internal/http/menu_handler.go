package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
)

type MenuHandler struct {
	repo menu.Repository
}

func NewMenuHandler(repo menu.Repository) *MenuHandler {
	return &MenuHandler{repo: repo}
}

func (h *MenuHandler) ListCanteens(w http.ResponseWriter, r *http.Request) {
	canteens, err := h.repo.ListCanteens(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, canteens)
}

func (h *MenuHandler) GetCanteen(w http.ResponseWriter, r *http.Request) {
	canteen, err := h.repo.GetCanteen(r.Context(), chi.URLParam(r, "canteen_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, canteen)
}

func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	canteenID := chi.URLParam(r, "canteen_id")

	var (
		items []*domain.MenuItem
		err   error
	)
	if r.URL.Query().Get("available") == "true" {
		items, err = h.repo.ListAvailable(r.Context(), canteenID)
	} else {
		items, err = h.repo.ListMenu(r.Context(), canteenID)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.repo.GetItem(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if item.Name == "" || item.CanteenID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and canteen_id are required")
		return
	}
	if item.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	if _, err := h.repo.GetCanteen(r.Context(), item.CanteenID); err != nil {
		respondDomainError(w, err)
		return
	}

	item.ID = "item_" + uuid.New().String()[:12]
	item.CreatedAt = time.Now()
	if err := h.repo.CreateItem(r.Context(), &item); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// UpdateItem patches price, stock and availability. Orders already placed
// keep the price they were created with.
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")

	var update domain.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if update.Price == nil && update.StockQty == nil && update.Available == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if update.Price != nil && *update.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	if err := h.repo.UpdateItem(r.Context(), itemID, update); err != nil {
		respondDomainError(w, err)
		return
	}

	item, err := h.repo.GetItem(r.Context(), itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
