package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/analytics"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

type AnalyticsHandler struct {
	repo   analytics.Repository
	orders *orders.Service
}

func NewAnalyticsHandler(repo analytics.Repository, ordersSvc *orders.Service) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, orders: ordersSvc}
}

func (h *AnalyticsHandler) MySpending(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	spending, err := h.repo.GetSpending(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, spending)
}

func (h *AnalyticsHandler) MyBills(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	bills, err := h.orders.ListBills(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.RevenueSummary(r.Context(), chi.URLParam(r, "canteen_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	items, err := h.repo.TopItems(r.Context(), chi.URLParam(r, "canteen_id"), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
