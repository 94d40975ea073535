package model

// DateLayout is the calendar-date format used for planned dates.
const DateLayout = "2006-01-02"

type MealPlan struct {
	ID          int64    `json:"id"`
	UserID      *int64   `json:"user_id"`
	MealID      int64    `json:"meal_id"`
	PlannedDate string   `json:"planned_date"`
	MealType    MealType `json:"meal_type"`
	Completed   bool     `json:"completed"`
}

// MealPlanWithMeal is a plan entry with its meal attached. Meal is nil when
// the referenced meal no longer exists.
type MealPlanWithMeal struct {
	MealPlan
	Meal *Meal `json:"meal"`
}
