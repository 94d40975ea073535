package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/familyhub/internal/model"
)

func sampleList(items ...model.ShoppingItem) model.EnrichedShoppingList {
	return model.EnrichedShoppingList{
		ShoppingList: model.ShoppingList{
			ID:        1,
			Name:      "Shopping List 2024-03-01 to 2024-03-07",
			CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Items: items,
	}
}

func TestShoppingListPDF(t *testing.T) {
	list := sampleList(
		model.ShoppingItem{ID: 1, Name: "2 cups flour", Category: model.CategoryIngredient},
		model.ShoppingItem{ID: 2, Name: "milk", Category: model.CategoryIngredient, Completed: true},
		model.ShoppingItem{ID: 3, Name: "jalapeño", Quantity: "3", Category: model.CategoryManual, RelatedMeal: "Tacos"},
	)

	var buf bytes.Buffer
	require.NoError(t, ShoppingListPDF(&buf, list))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF header")
	assert.True(t, bytes.Contains(out[len(out)-16:], []byte("%%EOF")), "missing PDF trailer")
}

func TestShoppingListPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ShoppingListPDF(&buf, sampleList()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestShoppingListPDFManyItemsPaginates(t *testing.T) {
	var items []model.ShoppingItem
	for i := range 120 {
		items = append(items, model.ShoppingItem{ID: int64(i + 1), Name: "item", Category: model.CategoryManual})
	}

	var small, large bytes.Buffer
	require.NoError(t, ShoppingListPDF(&small, sampleList(items[:1]...)))
	require.NoError(t, ShoppingListPDF(&large, sampleList(items...)))

	assert.Greater(t, bytes.Count(large.Bytes(), []byte("/Type /Page\n")), bytes.Count(small.Bytes(), []byte("/Type /Page\n")))
}
