package repository

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
)

// Memory is a map-backed repository. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	meals  map[int64]model.Meal
	plans  map[int64]model.MealPlan
	lists  map[int64]model.ShoppingList
	items  map[int64]model.ShoppingItem
	nextID map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		meals:  make(map[int64]model.Meal),
		plans:  make(map[int64]model.MealPlan),
		lists:  make(map[int64]model.ShoppingList),
		items:  make(map[int64]model.ShoppingItem),
		nextID: make(map[string]int64),
	}
}

var (
	_ MealPlans     = (*Memory)(nil)
	_ Meals         = (*Memory)(nil)
	_ ShoppingLists = (*Memory)(nil)
)

func (m *Memory) id(kind string) int64 {
	m.nextID[kind]++
	return m.nextID[kind]
}

// AddMeal stores a meal and returns it with an assigned ID.
func (m *Memory) AddMeal(meal model.Meal) model.Meal {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal.ID = m.id("meal")
	if meal.Servings == 0 {
		meal.Servings = model.DefaultServings
	}
	meal.Ingredients = append([]string(nil), meal.Ingredients...)
	m.meals[meal.ID] = meal
	return meal
}

// AddMealPlan stores a plan entry and returns it with an assigned ID.
func (m *Memory) AddMealPlan(plan model.MealPlan) model.MealPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.ID = m.id("plan")
	m.plans[plan.ID] = plan
	return plan
}

// DeleteMeal removes a meal, leaving any plans that reference it dangling.
func (m *Memory) DeleteMeal(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meals, id)
}

func (m *Memory) ListByDate(_ context.Context, date string) ([]model.MealPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var plans []model.MealPlan
	for id := int64(1); id <= m.nextID["plan"]; id++ {
		if p, ok := m.plans[id]; ok && p.PlannedDate == date {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

func (m *Memory) GetByID(_ context.Context, id int64) (*model.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meal, ok := m.meals[id]
	if !ok {
		return nil, nil
	}
	meal.Ingredients = append([]string(nil), meal.Ingredients...)
	return &meal, nil
}

// Lists returns every list in creation order.
func (m *Memory) Lists() []model.ShoppingList {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lists []model.ShoppingList
	for id := int64(1); id <= m.nextID["list"]; id++ {
		if l, ok := m.lists[id]; ok {
			lists = append(lists, l)
		}
	}
	return lists
}

func (m *Memory) ListItemsByList(_ context.Context, listID int64) ([]model.ShoppingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []model.ShoppingItem
	for id := int64(1); id <= m.nextID["item"]; id++ {
		if it, ok := m.items[id]; ok && it.ListID == listID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (m *Memory) CreateList(ctx context.Context, name string, createdBy *int64) (*model.ShoppingList, error) {
	var list *model.ShoppingList
	err := m.WithTx(ctx, func(w ShoppingWriter) error {
		var err error
		list, err = w.CreateList(ctx, name, createdBy)
		return err
	})
	return list, err
}

func (m *Memory) CreateItem(ctx context.Context, in model.NewShoppingItem) (*model.ShoppingItem, error) {
	var item *model.ShoppingItem
	err := m.WithTx(ctx, func(w ShoppingWriter) error {
		var err error
		item, err = w.CreateItem(ctx, in)
		return err
	})
	return item, err
}

// WithTx stages writes made through the writer and applies them only when fn
// succeeds. IDs handed out by a discarded transaction are not reused.
func (m *Memory) WithTx(_ context.Context, fn func(ShoppingWriter) error) error {
	tx := &memoryTx{m: m}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range tx.lists {
		m.lists[l.ID] = l
	}
	for _, it := range tx.items {
		m.items[it.ID] = it
	}
	return nil
}

type memoryTx struct {
	m     *Memory
	lists []model.ShoppingList
	items []model.ShoppingItem
}

func (tx *memoryTx) CreateList(_ context.Context, name string, createdBy *int64) (*model.ShoppingList, error) {
	tx.m.mu.Lock()
	id := tx.m.id("list")
	tx.m.mu.Unlock()

	l := model.ShoppingList{ID: id, Name: name, CreatedBy: createdBy, CreatedAt: time.Now().UTC()}
	tx.lists = append(tx.lists, l)
	return &l, nil
}

func (tx *memoryTx) CreateItem(_ context.Context, in model.NewShoppingItem) (*model.ShoppingItem, error) {
	tx.m.mu.Lock()
	id := tx.m.id("item")
	tx.m.mu.Unlock()

	it := model.ShoppingItem{
		ID:          id,
		ListID:      in.ListID,
		Name:        in.Name,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Completed:   in.Completed,
		AddedBy:     in.AddedBy,
		RelatedMeal: in.RelatedMeal,
		CreatedAt:   time.Now().UTC(),
	}
	tx.items = append(tx.items, it)
	return &it, nil
}
