// Package repository declares the storage contracts the shopping-list engine
// depends on. internal/store satisfies them with SQLite; Memory satisfies
// them with maps.
package repository

import (
	"context"

	"github.com/dukerupert/familyhub/internal/model"
)

// MealPlans looks up plan entries by planned date (YYYY-MM-DD, exact match).
type MealPlans interface {
	ListByDate(ctx context.Context, date string) ([]model.MealPlan, error)
}

// Meals resolves meal records. A missing meal is reported as (nil, nil).
type Meals interface {
	GetByID(ctx context.Context, id int64) (*model.Meal, error)
}

// Users resolves household members. A missing user is reported as (nil, nil).
type Users interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ShoppingItems reads the items that belong to a list.
type ShoppingItems interface {
	ListItemsByList(ctx context.Context, listID int64) ([]model.ShoppingItem, error)
}

// ShoppingWriter creates lists and items.
type ShoppingWriter interface {
	CreateList(ctx context.Context, name string, createdBy *int64) (*model.ShoppingList, error)
	CreateItem(ctx context.Context, in model.NewShoppingItem) (*model.ShoppingItem, error)
}

// ShoppingLists is the full shopping contract. WithTx runs fn against a
// writer whose writes are committed only if fn returns nil.
type ShoppingLists interface {
	ShoppingItems
	ShoppingWriter
	WithTx(ctx context.Context, fn func(ShoppingWriter) error) error
}
