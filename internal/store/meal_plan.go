package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/familyhub/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanMealPlan(sc scanner) (*model.MealPlan, error) {
	var p model.MealPlan
	var userID sql.NullInt64
	var completed int

	err := sc.Scan(&p.ID, &userID, &p.MealID, &p.PlannedDate, &p.MealType, &completed)
	if err != nil {
		return nil, err
	}
	p.UserID = int64Ptr(userID)
	p.Completed = completed != 0
	return &p, nil
}

const mealPlanCols = `id, user_id, meal_id, planned_date, meal_type, completed`

func (s *MealPlanStore) Create(ctx context.Context, p model.MealPlan) (*model.MealPlan, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, meal_id, planned_date, meal_type, completed) VALUES (?, ?, ?, ?, ?)`,
		nullInt64(p.UserID), p.MealID, p.PlannedDate, p.MealType, boolInt(p.Completed),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MealPlanStore) GetByID(ctx context.Context, id int64) (*model.MealPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mealPlanCols+` FROM meal_plans WHERE id = ?`, id)
	p, err := scanMealPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return p, nil
}

// ListByDate returns the entries planned for exactly the given YYYY-MM-DD date.
func (s *MealPlanStore) ListByDate(ctx context.Context, date string) ([]model.MealPlan, error) {
	return s.query(ctx, `SELECT `+mealPlanCols+` FROM meal_plans WHERE planned_date = ? ORDER BY id ASC`, date)
}

func (s *MealPlanStore) ListByUser(ctx context.Context, userID int64) ([]model.MealPlan, error) {
	return s.query(ctx, `SELECT `+mealPlanCols+` FROM meal_plans WHERE user_id = ? ORDER BY planned_date ASC, id ASC`, userID)
}

// Update overwrites the mutable fields of an entry. Returns (nil, nil) when
// the entry does not exist.
func (s *MealPlanStore) Update(ctx context.Context, p model.MealPlan) (*model.MealPlan, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE meal_plans SET user_id = ?, meal_id = ?, planned_date = ?, meal_type = ?, completed = ? WHERE id = ?`,
		nullInt64(p.UserID), p.MealID, p.PlannedDate, p.MealType, boolInt(p.Completed), p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal plan: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, p.ID)
}

// Delete removes an entry and reports whether it existed.
func (s *MealPlanStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete meal plan: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *MealPlanStore) query(ctx context.Context, q string, args ...any) ([]model.MealPlan, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}
