package shopping

import (
	"context"
	"fmt"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
)

// WithItems attaches the list's items. Items is never nil.
func WithItems(ctx context.Context, items repository.ShoppingItems, list model.ShoppingList) (*model.EnrichedShoppingList, error) {
	listItems, err := items.ListItemsByList(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("items for list %d: %w", list.ID, err)
	}
	if listItems == nil {
		listItems = []model.ShoppingItem{}
	}
	return &model.EnrichedShoppingList{ShoppingList: list, Items: listItems}, nil
}

// WithItemsAll enriches every list, preserving order.
func WithItemsAll(ctx context.Context, items repository.ShoppingItems, lists []model.ShoppingList) ([]model.EnrichedShoppingList, error) {
	enriched := make([]model.EnrichedShoppingList, 0, len(lists))
	for _, list := range lists {
		e, err := WithItems(ctx, items, list)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, *e)
	}
	return enriched, nil
}
