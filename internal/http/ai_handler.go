package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/ai"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/orders"
)

type AIHandler struct {
	ai     *ai.Service
	menu   menu.Repository
	orders *orders.Service
}

func NewAIHandler(aiSvc *ai.Service, menuRepo menu.Repository, ordersSvc *orders.Service) *AIHandler {
	return &AIHandler{ai: aiSvc, menu: menuRepo, orders: ordersSvc}
}

type SymptomRequestDTO struct {
	Symptom   string `json:"symptom"`
	CanteenID string `json:"canteen_id"`
}

type DietPlanRequestDTO struct {
	Goal          string  `json:"goal"`
	CurrentWeight float64 `json:"current_weight"`
	TargetWeight  float64 `json:"target_weight"`
}

// Recommendations suggests items based on the student's order history. An
// optional canteen_id query narrows the candidate pool.
func (h *AIHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	history, err := h.orders.ListMyOrders(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var items []domain.OrderItem
	for _, order := range history {
		items = append(items, order.Items...)
	}

	available, err := h.menu.ListAvailable(r.Context(), r.URL.Query().Get("canteen_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	recs := h.ai.Collaborative(r.Context(), items, available)
	respondJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (h *AIHandler) Symptom(w http.ResponseWriter, r *http.Request) {
	var req SymptomRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Symptom == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "symptom is required")
		return
	}

	available, err := h.menu.ListAvailable(r.Context(), req.CanteenID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.ai.Symptom(r.Context(), req.Symptom, available))
}

func (h *AIHandler) DietPlan(w http.ResponseWriter, r *http.Request) {
	var req DietPlanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Goal == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "goal is required")
		return
	}

	available, err := h.menu.ListAvailable(r.Context(), "")
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.ai.WeeklyDietPlan(r.Context(), req.Goal, req.CurrentWeight, req.TargetWeight, available))
}

// maxCalorieBudget bounds the knapsack DP table, which grows linearly with
// the budget. 20000 kcal is far beyond any plausible daily intake.
const maxCalorieBudget = 20000

// ProteinKnapsack maximizes protein under a calorie budget. Computed locally,
// no model involved.
func (h *AIHandler) ProteinKnapsack(w http.ResponseWriter, r *http.Request) {
	budget, err := strconv.Atoi(r.URL.Query().Get("calories"))
	if err != nil || budget <= 0 || budget > maxCalorieBudget {
		respondError(w, http.StatusBadRequest, "invalid_calories", "calories must be between 1 and 20000")
		return
	}

	available, err := h.menu.ListAvailable(r.Context(), r.URL.Query().Get("canteen_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ai.ProteinKnapsack(available, budget))
}
