package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/familyhub/internal/model"
)

func TestMealPlanListDefaultWeek(t *testing.T) {
	env := newTestEnv(t)
	h := NewMealPlanHandler(env.plans, env.meals, env.hub, env.logger)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC) }

	tacos := env.meal(t, "Tacos", "tortillas")
	env.plan(t, tacos.ID, "2024-02-29")
	env.plan(t, tacos.ID, "2024-03-01")
	env.plan(t, tacos.ID, "2024-03-07")
	env.plan(t, tacos.ID, "2024-03-08")
	env.plan(t, 999, "2024-03-03")

	rec := do(t, h.List, "GET", "/api/meal-plans", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	plans := decode[[]model.MealPlanWithMeal](t, rec)
	require.Len(t, plans, 3)
	assert.Equal(t, "2024-03-01", plans[0].PlannedDate)
	assert.Equal(t, "2024-03-03", plans[1].PlannedDate)
	assert.Equal(t, "2024-03-07", plans[2].PlannedDate)
	require.NotNil(t, plans[0].Meal)
	assert.Equal(t, "Tacos", plans[0].Meal.Name)
	assert.Nil(t, plans[1].Meal, "dangling meal reference should serialize as null")
}

func TestMealPlanListFilters(t *testing.T) {
	env := newTestEnv(t)
	h := NewMealPlanHandler(env.plans, env.meals, env.hub, env.logger)
	u := env.user(t, "sarah", model.RoleParent)
	soup := env.meal(t, "Soup")

	_, err := env.plans.Create(t.Context(), model.MealPlan{UserID: &u.ID, MealID: soup.ID, PlannedDate: "2024-05-01", MealType: model.MealTypeLunch})
	require.NoError(t, err)
	env.plan(t, soup.ID, "2024-05-02")

	rec := do(t, h.List, "GET", "/api/meal-plans?userId="+itoa(u.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.MealPlanWithMeal](t, rec), 1)

	rec = do(t, h.List, "GET", "/api/meal-plans?date=2024-05-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.MealPlanWithMeal](t, rec), 1)

	rec = do(t, h.List, "GET", "/api/meal-plans?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMealPlanCreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	h := NewMealPlanHandler(env.plans, env.meals, env.hub, env.logger)
	u := env.user(t, "mike", model.RoleCook)
	soup := env.meal(t, "Soup")

	rec := do(t, h.Create, "POST", "/", map[string]any{
		"meal_id": soup.ID, "planned_date": "2024-05-01", "meal_type": "lunch",
	}, asUser(u.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[model.MealPlan](t, rec)
	require.NotNil(t, p.UserID)
	assert.Equal(t, u.ID, *p.UserID)

	rec = do(t, h.Update, "PUT", "/", map[string]any{"completed": true}, withID(p.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.MealPlan](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "2024-05-01", updated.PlannedDate)

	rec = do(t, h.Update, "PUT", "/", map[string]any{"planned_date": "05/01/2024"}, withID(p.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h.Delete, "DELETE", "/", nil, withID(p.ID))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h.Update, "PUT", "/", map[string]any{"completed": false}, withID(p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"meal_plan_created", "meal_plan_updated", "meal_plan_deleted"}, env.hub.types())
}

func TestMealPlanCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewMealPlanHandler(env.plans, env.meals, env.hub, env.logger)
	soup := env.meal(t, "Soup")

	tests := map[string]map[string]any{
		"no meal":       {"planned_date": "2024-05-01", "meal_type": "lunch"},
		"unknown meal":  {"meal_id": 999, "planned_date": "2024-05-01", "meal_type": "lunch"},
		"no date":       {"meal_id": soup.ID, "meal_type": "lunch"},
		"bad date":      {"meal_id": soup.ID, "planned_date": "2024-13-01", "meal_type": "lunch"},
		"bad meal type": {"meal_id": soup.ID, "planned_date": "2024-05-01", "meal_type": "brunch"},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h.Create, "POST", "/", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}
