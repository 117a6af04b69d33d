// Package ai generates meal suggestions. The LLM-backed endpoints prompt for
// strict JSON and fail soft (empty recommendations) when the model returns
// anything else; the protein optimizer is computed locally.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type Recommendation struct {
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

type SymptomAdvice struct {
	RecommendedItems []Recommendation `json:"recommended_items"`
	FoodsToAvoid     []string         `json:"foods_to_avoid"`
	Explanation      string           `json:"explanation"`
}

type DietPlanDay struct {
	Day   string   `json:"day"`
	Meals []string `json:"meals"`
}

type DietPlan struct {
	Goal          string        `json:"goal"`
	ProteinTarget float64       `json:"protein_target"`
	Days          []DietPlanDay `json:"days"`
}

type Service struct {
	model llms.Model
	log   *logrus.Logger
}

func NewService(model llms.Model, log *logrus.Logger) *Service {
	return &Service{model: model, log: log}
}

// Collaborative suggests items similar to what the student ordered before.
// On any model or parse failure it returns an empty list, never an error the
// handler would surface: suggestions are decoration, not data.
func (s *Service) Collaborative(ctx context.Context, history []domain.OrderItem, available []*domain.MenuItem) []Recommendation {
	historyJSON, _ := json.Marshal(history)
	itemsJSON, _ := json.Marshal(available)

	prompt := fmt.Sprintf(`You are a food recommendation expert for a campus canteen.

Based on this student's order history:
%s

And these available menu items:
%s

Provide 5 personalized food recommendations. Return ONLY a JSON array with this exact format:
[{"item_id": "string", "item_name": "string", "reason": "Brief reason", "confidence": 0.9}]

No additional text, only the JSON array.`, historyJSON, itemsJSON)

	var recs []Recommendation
	if err := s.generateJSON(ctx, prompt, &recs); err != nil {
		s.log.WithError(err).Warn("collaborative recommendations unavailable")
		return []Recommendation{}
	}
	return recs
}

// Symptom recommends meals for a health complaint (stress, cold, fever...).
func (s *Service) Symptom(ctx context.Context, symptom string, available []*domain.MenuItem) *SymptomAdvice {
	itemsJSON, _ := json.Marshal(available)

	prompt := fmt.Sprintf(`You are a nutritionist. A student is experiencing: %s

Available canteen items with full nutrition:
%s

Return ONLY a JSON object with this exact format:
{"recommended_items": [{"item_id": "string", "item_name": "string", "reason": "string", "confidence": 0.9}], "foods_to_avoid": ["string"], "explanation": "string"}`,
		symptom, itemsJSON)

	var advice SymptomAdvice
	if err := s.generateJSON(ctx, prompt, &advice); err != nil {
		s.log.WithError(err).Warn("symptom recommendations unavailable")
		return &SymptomAdvice{RecommendedItems: []Recommendation{}}
	}
	return &advice
}

// WeeklyDietPlan builds a 7-day plan for a gym goal from the available menu.
func (s *Service) WeeklyDietPlan(ctx context.Context, goal string, currentWeight, targetWeight float64, available []*domain.MenuItem) *DietPlan {
	itemsJSON, _ := json.Marshal(available)

	prompt := fmt.Sprintf(`You are a sports nutritionist. Build a weekly diet plan.

Goal: %s. Current weight: %.1f kg. Target weight: %.1f kg.

Only use these canteen items:
%s

Return ONLY a JSON object with this exact format:
{"goal": "string", "protein_target": 120, "days": [{"day": "Monday", "meals": ["string"]}]}`,
		goal, currentWeight, targetWeight, itemsJSON)

	var plan DietPlan
	if err := s.generateJSON(ctx, prompt, &plan); err != nil {
		s.log.WithError(err).Warn("diet plan unavailable")
		return &DietPlan{Goal: goal, Days: []DietPlanDay{}}
	}
	return &plan
}

var jsonBlock = regexp.MustCompile(`(?s)[\[{].*[\]}]`)

func (s *Service) generateJSON(ctx context.Context, prompt string, out any) error {
	if s.model == nil {
		return fmt.Errorf("no model configured")
	}
	response, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return fmt.Errorf("llm call failed: %w", err)
	}

	if err := decodeModelJSON(response, out); err != nil {
		return fmt.Errorf("llm returned unparseable output: %w", err)
	}
	return nil
}

// decodeModelJSON parses the model output, tolerating prose around the JSON
// block the way chatty models tend to answer.
func decodeModelJSON(response string, out any) error {
	response = strings.TrimSpace(response)
	if err := json.Unmarshal([]byte(response), out); err == nil {
		return nil
	}

	match := jsonBlock.FindString(response)
	if match == "" {
		return fmt.Errorf("no JSON found in model output")
	}
	return json.Unmarshal([]byte(match), out)
}
