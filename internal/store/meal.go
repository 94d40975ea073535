package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/familyhub/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMeal(sc scanner) (*model.Meal, error) {
	var m model.Meal
	var ingredients string
	var prepTime sql.NullInt64
	var createdBy sql.NullInt64

	err := sc.Scan(
		&m.ID, &m.Name, &m.Description, &m.Cuisine, &ingredients, &m.Instructions,
		&m.MealType, &m.Servings, &prepTime, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if prepTime.Valid {
		p := int(prepTime.Int64)
		m.PrepTimeMinutes = &p
	}
	m.CreatedBy = int64Ptr(createdBy)
	return &m, nil
}

const mealCols = `id, name, description, cuisine, ingredients, instructions, meal_type, servings, prep_time_minutes, created_by, created_at`

// Create inserts a meal. ID and CreatedAt on m are ignored; a zero serving
// count becomes the default of 4.
func (s *MealStore) Create(ctx context.Context, m model.Meal) (*model.Meal, error) {
	if m.Servings == 0 {
		m.Servings = model.DefaultServings
	}
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}
	ingredients, err := json.Marshal(m.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("encode ingredients: %w", err)
	}

	var prepTime sql.NullInt64
	if m.PrepTimeMinutes != nil {
		prepTime = sql.NullInt64{Int64: int64(*m.PrepTimeMinutes), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (name, description, cuisine, ingredients, instructions, meal_type, servings, prep_time_minutes, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Cuisine, string(ingredients), m.Instructions, m.MealType, m.Servings, prepTime, nullInt64(m.CreatedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MealStore) GetByID(ctx context.Context, id int64) (*model.Meal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mealCols+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

func (s *MealStore) List(ctx context.Context) ([]model.Meal, error) {
	return s.query(ctx, `SELECT `+mealCols+` FROM meals ORDER BY id ASC`)
}

func (s *MealStore) ListByCreator(ctx context.Context, userID int64) ([]model.Meal, error) {
	return s.query(ctx, `SELECT `+mealCols+` FROM meals WHERE created_by = ? ORDER BY id ASC`, userID)
}

func (s *MealStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count meals: %w", err)
	}
	return n, nil
}

func (s *MealStore) query(ctx context.Context, q string, args ...any) ([]model.Meal, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}
