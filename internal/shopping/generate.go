package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
)

// DefaultTimeout bounds a generation when WithTimeout is not given.
const DefaultTimeout = 10 * time.Second

// GenerateRequest asks for a shopping list covering StartDate through
// EndDate inclusive, owned by UserID. Its JSON keys are camelCase, the
// shape household clients already send to the generate endpoint.
type GenerateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	UserID    int64  `json:"userId"`
}

// ListName returns the name given to a list generated for the range.
func ListName(startDate, endDate string) string {
	return fmt.Sprintf("Shopping List %s to %s", startDate, endDate)
}

// Generator derives shopping lists from planned meals.
type Generator struct {
	plans   repository.MealPlans
	meals   repository.Meals
	lists   repository.ShoppingLists
	users   repository.Users
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout bounds a whole generation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithLogger sets the logger for skipped meals and generated lists. The
// default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithUsers makes Generate reject user ids that do not resolve with
// ErrUnknownUser before anything is written.
func WithUsers(users repository.Users) Option {
	return func(g *Generator) {
		g.users = users
	}
}

// NewGenerator reads plans and meals and writes through lists.
func NewGenerator(plans repository.MealPlans, meals repository.Meals, lists repository.ShoppingLists, opts ...Option) *Generator {
	g := &Generator{
		plans:   plans,
		meals:   meals,
		lists:   lists,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates a new list holding one "ingredient" item per distinct
// ingredient of the meals planned in the range. The list and its items are
// written in one transaction. Repeated calls create independent lists.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*model.EnrichedShoppingList, error) {
	if req.UserID <= 0 {
		return nil, ErrMissingUser
	}
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date %q: %w", req.StartDate, err)
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date %q: %w", req.EndDate, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.users != nil {
		u, err := g.users.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, &RetrievalError{Op: "user", Err: err}
		}
		if u == nil {
			return nil, fmt.Errorf("user %d: %w", req.UserID, ErrUnknownUser)
		}
	}

	entries, err := CollectPlansInRange(ctx, g.plans, start, end)
	if err != nil {
		return nil, err
	}

	ingredients, err := AggregateIngredients(ctx, g.meals, entries, g.logger)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	var list *model.ShoppingList
	items := make([]model.ShoppingItem, 0, len(ingredients))
	err = g.lists.WithTx(ctx, func(w repository.ShoppingWriter) error {
		var err error
		list, err = w.CreateList(ctx, ListName(req.StartDate, req.EndDate), &userID)
		if err != nil {
			return fmt.Errorf("create list: %w", err)
		}
		for _, ingredient := range ingredients {
			item, err := w.CreateItem(ctx, model.NewShoppingItem{
				ListID:   list.ID,
				Name:     ingredient,
				Category: model.CategoryIngredient,
				AddedBy:  &userID,
			})
			if err != nil {
				return fmt.Errorf("create item %q: %w", ingredient, err)
			}
			items = append(items, *item)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &RetrievalError{Op: "shopping list write", Err: err}
		}
		return nil, err
	}

	g.logger.Info("generated shopping list",
		"list_id", list.ID,
		"start", req.StartDate,
		"end", req.EndDate,
		"plans", len(entries),
		"items", len(items),
	)

	return &model.EnrichedShoppingList{ShoppingList: *list, Items: items}, nil
}
