package ai

import "github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"

// MealPlan is the result of the protein optimizer: the subset of menu items
// that maximizes protein without blowing the calorie budget.
type MealPlan struct {
	Items         []*domain.MenuItem `json:"items"`
	TotalProtein  float64            `json:"total_protein"`
	TotalCalories int                `json:"total_calories"`
	TotalPrice    float64            `json:"total_price"`
}

// ProteinKnapsack solves a 0/1 knapsack over the available items: each item
// may be picked at most once, calories are the weight, protein the value.
// Items with no calorie information are skipped rather than treated as free.
func ProteinKnapsack(items []*domain.MenuItem, calorieBudget int) *MealPlan {
	plan := &MealPlan{Items: []*domain.MenuItem{}}
	if calorieBudget <= 0 {
		return plan
	}

	var candidates []*domain.MenuItem
	for _, item := range items {
		if item.Nutrition.Calories > 0 && item.Nutrition.Calories <= calorieBudget &&
			item.Nutrition.Protein > 0 {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return plan
	}

	// best[w] is the max protein achievable within w calories; pick[i][w]
	// records whether candidate i was taken at that budget.
	best := make([]float64, calorieBudget+1)
	pick := make([][]bool, len(candidates))
	for i, item := range candidates {
		pick[i] = make([]bool, calorieBudget+1)
		cal := item.Nutrition.Calories
		for w := calorieBudget; w >= cal; w-- {
			if with := best[w-cal] + item.Nutrition.Protein; with > best[w] {
				best[w] = with
				pick[i][w] = true
			}
		}
	}

	w := calorieBudget
	for i := len(candidates) - 1; i >= 0; i-- {
		if pick[i][w] {
			item := candidates[i]
			plan.Items = append(plan.Items, item)
			plan.TotalProtein += item.Nutrition.Protein
			plan.TotalCalories += item.Nutrition.Calories
			plan.TotalPrice += item.Price
			w -= item.Nutrition.Calories
		}
	}

	// Reverse into menu order.
	for i, j := 0, len(plan.Items)-1; i < j; i, j = i+1, j-1 {
		plan.Items[i], plan.Items[j] = plan.Items[j], plan.Items[i]
	}
	return plan
}
