// Package seed loads the demo household into an empty database.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
)

//go:embed seed.yaml
var defaultData []byte

type Data struct {
	Users []User `yaml:"users"`
	Meals []Meal `yaml:"meals"`
	Plans []Plan `yaml:"plans"`
}

type User struct {
	Username    string                `yaml:"username"`
	Password    string                `yaml:"password"`
	Role        model.Role            `yaml:"role"`
	Name        string                `yaml:"name"`
	Avatar      string                `yaml:"avatar"`
	Preferences model.UserPreferences `yaml:"preferences"`
}

type Meal struct {
	Name            string         `yaml:"name"`
	Description     string         `yaml:"description"`
	Cuisine         string         `yaml:"cuisine"`
	MealType        model.MealType `yaml:"meal_type"`
	Servings        int            `yaml:"servings"`
	PrepTimeMinutes *int           `yaml:"prep_time_minutes"`
	CreatedBy       string         `yaml:"created_by"`
	Ingredients     []string       `yaml:"ingredients"`
	Instructions    string         `yaml:"instructions"`
}

// Plan places a meal Day days after the seed date.
type Plan struct {
	Meal     string         `yaml:"meal"`
	User     string         `yaml:"user"`
	Day      int            `yaml:"day"`
	MealType model.MealType `yaml:"meal_type"`
}

// Result counts the rows Apply inserted.
type Result struct {
	Users int
	Meals int
	Plans int
}

// Default returns the embedded demo household.
func Default() (Data, error) {
	return Parse(defaultData)
}

func Parse(b []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Data{}, fmt.Errorf("parse seed data: %w", err)
	}
	for _, u := range d.Users {
		if !u.Role.Valid() {
			return Data{}, fmt.Errorf("seed user %q: invalid role %q", u.Username, u.Role)
		}
	}
	for _, m := range d.Meals {
		if !m.MealType.Valid() {
			return Data{}, fmt.Errorf("seed meal %q: invalid meal type %q", m.Name, m.MealType)
		}
	}
	return d, nil
}

// Apply inserts d when the database has no users yet. Plan dates are
// relative to today. Running it against a populated database is a no-op.
func Apply(ctx context.Context, db *sql.DB, d Data, today time.Time, logger *slog.Logger) (Result, error) {
	users := store.NewUserStore(db)
	meals := store.NewMealStore(db)
	plans := store.NewMealPlanStore(db)

	var res Result
	n, err := users.Count(ctx)
	if err != nil {
		return res, err
	}
	if n > 0 {
		logger.Debug("seed skipped", "users", n)
		return res, nil
	}

	userIDs := make(map[string]int64, len(d.Users))
	for _, u := range d.Users {
		created, err := users.Create(ctx, u.Username, u.Password, u.Role, u.Name, u.Avatar, u.Preferences)
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		userIDs[u.Username] = created.ID
		res.Users++
	}

	lookupUser := func(username string) (*int64, error) {
		if username == "" {
			return nil, nil
		}
		id, ok := userIDs[username]
		if !ok {
			return nil, fmt.Errorf("unknown seed user %q", username)
		}
		return &id, nil
	}

	mealIDs := make(map[string]int64, len(d.Meals))
	for _, m := range d.Meals {
		createdBy, err := lookupUser(m.CreatedBy)
		if err != nil {
			return res, fmt.Errorf("seed meal %q: %w", m.Name, err)
		}
		servings := m.Servings
		if servings == 0 {
			servings = model.DefaultServings
		}
		created, err := meals.Create(ctx, model.Meal{
			Name:            m.Name,
			Description:     m.Description,
			Cuisine:         m.Cuisine,
			Ingredients:     m.Ingredients,
			Instructions:    m.Instructions,
			MealType:        m.MealType,
			Servings:        servings,
			PrepTimeMinutes: m.PrepTimeMinutes,
			CreatedBy:       createdBy,
		})
		if err != nil {
			return res, fmt.Errorf("seed meal %q: %w", m.Name, err)
		}
		mealIDs[m.Name] = created.ID
		res.Meals++
	}

	for _, p := range d.Plans {
		mealID, ok := mealIDs[p.Meal]
		if !ok {
			return res, fmt.Errorf("seed plan: unknown meal %q", p.Meal)
		}
		userID, err := lookupUser(p.User)
		if err != nil {
			return res, fmt.Errorf("seed plan for %q: %w", p.Meal, err)
		}
		mealType := p.MealType
		if mealType == "" {
			mealType = model.MealTypeDinner
		}
		if _, err := plans.Create(ctx, model.MealPlan{
			UserID:      userID,
			MealID:      mealID,
			PlannedDate: today.AddDate(0, 0, p.Day).Format(model.DateLayout),
			MealType:    mealType,
		}); err != nil {
			return res, fmt.Errorf("seed plan for %q: %w", p.Meal, err)
		}
		res.Plans++
	}

	logger.Info("seeded database", "users", res.Users, "meals", res.Meals, "plans", res.Plans)
	return res, nil
}
