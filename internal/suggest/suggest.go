// Package suggest asks a language model for meal ideas that match household
// preferences.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/familyhub/internal/model"
)

var (
	// ErrDisabled is returned when no model is configured.
	ErrDisabled        = errors.New("meal suggestions are not configured")
	ErrInvalidMealType = errors.New("invalid meal type")
)

// SuggestionCount is how many meals are requested per call.
const SuggestionCount = 5

const systemPrompt = "You are a helpful cooking assistant. Generate realistic meal suggestions based on user preferences. Return valid JSON only."

type Request struct {
	Cuisines []string       `json:"cuisines"`
	Dietary  []string       `json:"dietary"`
	MealType model.MealType `json:"mealType"`
}

type Service struct {
	gen    TextGenerator
	logger *slog.Logger
}

// NewService wraps gen. A nil gen yields a Service whose Suggest always
// returns ErrDisabled.
func NewService(gen TextGenerator, logger *slog.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

func (s *Service) Enabled() bool {
	return s.gen != nil
}

func (s *Service) Suggest(ctx context.Context, req Request) ([]model.MealSuggestion, error) {
	if s.gen == nil {
		return nil, ErrDisabled
	}
	if req.MealType == "" {
		req.MealType = model.MealTypeDinner
	}
	if !req.MealType.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMealType, req.MealType)
	}

	out, err := s.gen.GenerateContent(ctx, BuildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("request suggestions: %w", err)
	}
	meals, err := ParseSuggestions(out)
	if err != nil {
		s.logger.Warn("unparseable suggestion response", "error", err, "bytes", len(out))
		return nil, err
	}
	s.logger.Debug("meal suggestions", "meal_type", req.MealType, "count", len(meals))
	return meals, nil
}

func BuildPrompt(req Request) string {
	cuisines := "any"
	if len(req.Cuisines) > 0 {
		cuisines = strings.Join(req.Cuisines, ", ")
	}
	dietary := "none"
	if len(req.Dietary) > 0 {
		dietary = strings.Join(req.Dietary, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s meal suggestions with the following preferences:\n", SuggestionCount, req.MealType)
	fmt.Fprintf(&b, "- Cuisines: %s\n", cuisines)
	fmt.Fprintf(&b, "- Dietary restrictions: %s\n\n", dietary)
	b.WriteString("For each meal, provide:\n")
	b.WriteString("- name: string\n")
	b.WriteString("- description: string (brief)\n")
	b.WriteString("- cuisine: string\n")
	b.WriteString("- ingredients: array of strings\n")
	b.WriteString("- instructions: string (brief cooking instructions)\n")
	b.WriteString("- prepTimeMinutes: number\n")
	fmt.Fprintf(&b, "- servings: number (default %d)\n\n", model.DefaultServings)
	b.WriteString("Return as JSON array of meal objects.")
	return b.String()
}

// ParseSuggestions accepts a bare JSON array or an object with a "meals"
// array, optionally wrapped in a markdown code fence.
func ParseSuggestions(raw string) ([]model.MealSuggestion, error) {
	raw = stripFence(raw)

	var meals []model.MealSuggestion
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &meals); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
	} else {
		var wrapped struct {
			Meals []model.MealSuggestion `json:"meals"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		meals = wrapped.Meals
	}

	out := make([]model.MealSuggestion, 0, len(meals))
	for _, m := range meals {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		if m.Servings <= 0 {
			m.Servings = model.DefaultServings
		}
		if m.Ingredients == nil {
			m.Ingredients = []string{}
		}
		out = append(out, m)
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
