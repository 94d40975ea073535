package shopping

import (
	"context"
	"errors"
	"sync"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
)

var errStorageDown = errors.New("storage unavailable")

// failingPlans fails lookups for one date.
type failingPlans struct {
	repository.MealPlans
	failOn string
}

func (f failingPlans) ListByDate(ctx context.Context, date string) ([]model.MealPlan, error) {
	if date == f.failOn {
		return nil, errStorageDown
	}
	return f.MealPlans.ListByDate(ctx, date)
}

type failingMeals struct{}

func (failingMeals) GetByID(context.Context, int64) (*model.Meal, error) {
	return nil, errStorageDown
}

// recordingPlans records which dates were requested.
type recordingPlans struct {
	repository.MealPlans
	mu    sync.Mutex
	dates []string
}

func (r *recordingPlans) ListByDate(ctx context.Context, date string) ([]model.MealPlan, error) {
	r.mu.Lock()
	r.dates = append(r.dates, date)
	r.mu.Unlock()
	return r.MealPlans.ListByDate(ctx, date)
}

// flakyWriter wraps a repository so the nth item creation fails.
type flakyWriter struct {
	*repository.Memory
	failAfter int
}

func (f *flakyWriter) WithTx(ctx context.Context, fn func(repository.ShoppingWriter) error) error {
	return f.Memory.WithTx(ctx, func(w repository.ShoppingWriter) error {
		return fn(&countingWriter{ShoppingWriter: w, left: f.failAfter})
	})
}

type countingWriter struct {
	repository.ShoppingWriter
	left int
}

func (c *countingWriter) CreateItem(ctx context.Context, in model.NewShoppingItem) (*model.ShoppingItem, error) {
	if c.left == 0 {
		return nil, errStorageDown
	}
	c.left--
	return c.ShoppingWriter.CreateItem(ctx, in)
}

func plan(mem *repository.Memory, mealID int64, date string) model.MealPlan {
	return mem.AddMealPlan(model.MealPlan{MealID: mealID, PlannedDate: date, MealType: model.MealTypeDinner})
}

func meal(mem *repository.Memory, name string, ingredients ...string) model.Meal {
	return mem.AddMeal(model.Meal{Name: name, Ingredients: ingredients, MealType: model.MealTypeDinner})
}

func itemNames(items []model.ShoppingItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}
