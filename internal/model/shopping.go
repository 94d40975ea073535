package model

import "time"

const (
	// CategoryIngredient marks items derived from planned meals.
	CategoryIngredient = "ingredient"
	// CategoryManual marks items typed in by a family member.
	CategoryManual = "manual"
)

type ShoppingList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy *int64    `json:"created_by"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type ShoppingItem struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	Name        string    `json:"name"`
	Quantity    string    `json:"quantity"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	AddedBy     *int64    `json:"added_by"`
	RelatedMeal string    `json:"related_meal"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewShoppingItem carries the fields needed to create a ShoppingItem.
type NewShoppingItem struct {
	ListID      int64
	Name        string
	Quantity    string
	Category    string
	Completed   bool
	AddedBy     *int64
	RelatedMeal string
}

// EnrichedShoppingList is a list with its items attached. It serializes as
// the list fields plus an "items" array.
type EnrichedShoppingList struct {
	ShoppingList
	Items []ShoppingItem `json:"items"`
}
