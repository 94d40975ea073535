package model

import "time"

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

const DefaultServings = 4

type Meal struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Cuisine         string    `json:"cuisine"`
	Ingredients     []string  `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	MealType        MealType  `json:"meal_type"`
	Servings        int       `json:"servings"`
	PrepTimeMinutes *int      `json:"prep_time_minutes"`
	CreatedBy       *int64    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// MealSuggestion is a meal proposed by the suggestion service. It is not
// persisted until a user accepts it.
type MealSuggestion struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Cuisine         string   `json:"cuisine"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	Servings        int      `json:"servings"`
}
