package shopping

import (
	"context"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxRangeDays bounds how many calendar days one generation may cover.
	MaxRangeDays = 366

	dayLookupConcurrency = 8
)

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Days returns every calendar day from start through end inclusive.
func Days(start, end time.Time) ([]string, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	n := int(end.Sub(start).Hours()/24) + 1
	if n > MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	days := make([]string, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(model.DateLayout))
	}
	return days, nil
}

// CollectPlansInRange returns the meal-plan entries planned on each day from
// start through end inclusive, concatenated in date order. Days are looked up
// concurrently; any failed lookup fails the whole call.
func CollectPlansInRange(ctx context.Context, plans repository.MealPlans, start, end time.Time) ([]model.MealPlan, error) {
	days, err := Days(start, end)
	if err != nil {
		return nil, err
	}

	perDay := make([][]model.MealPlan, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dayLookupConcurrency)
	for i, day := range days {
		g.Go(func() error {
			entries, err := plans.ListByDate(gctx, day)
			if err != nil {
				return &RetrievalError{Op: "meal plans for " + day, Err: err}
			}
			perDay[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.MealPlan
	for _, entries := range perDay {
		all = append(all, entries...)
	}
	return all, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
