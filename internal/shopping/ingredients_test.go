package shopping

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateIngredientsDeduplicates(t *testing.T) {
	mem := repository.NewMemory()
	m1 := meal(mem, "Omelette", "egg", "milk")
	m2 := meal(mem, "Toast", "milk", "bread")
	entries := []model.MealPlan{
		plan(mem, m1.ID, "2024-03-01"),
		plan(mem, m2.ID, "2024-03-02"),
		plan(mem, m1.ID, "2024-03-03"),
	}

	got, err := AggregateIngredients(context.Background(), mem, entries, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"bread", "egg", "milk"}, got)
}

func TestAggregateIngredientsIsExact(t *testing.T) {
	mem := repository.NewMemory()
	m1 := meal(mem, "Salad", "Tomato", "2 cups flour")
	m2 := meal(mem, "Sauce", "tomato", "flour", "Tomato ")
	entries := []model.MealPlan{plan(mem, m1.ID, "2024-03-01"), plan(mem, m2.ID, "2024-03-01")}

	got, err := AggregateIngredients(context.Background(), mem, entries, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Tomato", "tomato", "Tomato ", "2 cups flour", "flour"}, got)
}

func TestAggregateIngredientsOrderIndependent(t *testing.T) {
	mem := repository.NewMemory()
	var entries []model.MealPlan
	for _, ings := range [][]string{
		{"rice", "beans"},
		{"beans", "salsa", "cheese"},
		{"cheese", "tortilla"},
		{},
		{"rice"},
	} {
		m := meal(mem, "m", ings...)
		entries = append(entries, plan(mem, m.ID, "2024-05-05"))
	}

	want, err := AggregateIngredients(context.Background(), mem, entries, nil)
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.MealPlan(nil), entries...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := AggregateIngredients(context.Background(), mem, shuffled, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAggregateIngredientsSkipsDanglingMeal(t *testing.T) {
	mem := repository.NewMemory()
	gone := meal(mem, "Gone", "saffron")
	kept := meal(mem, "Kept", "garlic")
	entries := []model.MealPlan{plan(mem, gone.ID, "2024-03-01"), plan(mem, kept.ID, "2024-03-01")}
	mem.DeleteMeal(gone.ID)

	got, err := AggregateIngredients(context.Background(), mem, entries, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"garlic"}, got)
}

func TestAggregateIngredientsEmpty(t *testing.T) {
	got, err := AggregateIngredients(context.Background(), repository.NewMemory(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregateIngredientsLookupFailure(t *testing.T) {
	entries := []model.MealPlan{{ID: 1, MealID: 7, PlannedDate: "2024-03-01"}}

	_, err := AggregateIngredients(context.Background(), failingMeals{}, entries, nil)
	var rerr *RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "meal 7", rerr.Op)
}
