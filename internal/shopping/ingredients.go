package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
)

// AggregateIngredients resolves each entry's meal and returns the distinct
// ingredient strings across all of them, sorted. Strings are compared
// verbatim. Entries whose meal no longer exists contribute nothing.
func AggregateIngredients(ctx context.Context, meals repository.Meals, entries []model.MealPlan, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[int64]bool, len(entries))
	set := make(map[string]struct{})
	for _, entry := range entries {
		if seen[entry.MealID] {
			continue
		}
		seen[entry.MealID] = true

		meal, err := meals.GetByID(ctx, entry.MealID)
		if err != nil {
			return nil, &RetrievalError{Op: fmt.Sprintf("meal %d", entry.MealID), Err: err}
		}
		if meal == nil {
			logger.Debug("skipping plan with missing meal", "plan_id", entry.ID, "meal_id", entry.MealID)
			continue
		}
		for _, ingredient := range meal.Ingredients {
			set[ingredient] = struct{}{}
		}
	}

	ingredients := make([]string, 0, len(set))
	for ingredient := range set {
		ingredients = append(ingredients, ingredient)
	}
	slices.Sort(ingredients)
	return ingredients, nil
}
