package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
)

type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func scanActivity(sc scanner) (*model.Activity, error) {
	var a model.Activity
	var endTime sql.NullTime
	var assignedTo, createdBy sql.NullInt64
	var recurring, completed int

	err := sc.Scan(
		&a.ID, &a.Title, &a.Description, &a.StartTime, &endTime, &a.Location,
		&assignedTo, &createdBy, &a.ActivityType, &recurring, &completed,
	)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		a.EndTime = &endTime.Time
	}
	a.AssignedTo = int64Ptr(assignedTo)
	a.CreatedBy = int64Ptr(createdBy)
	a.Recurring = recurring != 0
	a.Completed = completed != 0
	return &a, nil
}

const activityCols = `id, title, description, start_time, end_time, location, assigned_to, created_by, activity_type, recurring, completed`

func (s *ActivityStore) Create(ctx context.Context, a model.Activity) (*model.Activity, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (title, description, start_time, end_time, location, assigned_to, created_by, activity_type, recurring, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.StartTime.UTC(), nullTime(a.EndTime), a.Location,
		nullInt64(a.AssignedTo), nullInt64(a.CreatedBy), a.ActivityType, boolInt(a.Recurring), boolInt(a.Completed),
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ActivityStore) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *ActivityStore) List(ctx context.Context) ([]model.Activity, error) {
	return s.query(ctx, `SELECT `+activityCols+` FROM activities ORDER BY start_time ASC`)
}

func (s *ActivityStore) ListByUser(ctx context.Context, userID int64) ([]model.Activity, error) {
	return s.query(ctx, `SELECT `+activityCols+` FROM activities WHERE assigned_to = ? ORDER BY start_time ASC`, userID)
}

// ListByDate returns activities starting on the given UTC calendar day.
func (s *ActivityStore) ListByDate(ctx context.Context, day time.Time) ([]model.Activity, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return s.query(ctx,
		`SELECT `+activityCols+` FROM activities WHERE start_time >= ? AND start_time < ? ORDER BY start_time ASC`,
		start, end,
	)
}

// Update overwrites an activity. Returns (nil, nil) when it does not exist.
func (s *ActivityStore) Update(ctx context.Context, a model.Activity) (*model.Activity, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE activities
		 SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?, assigned_to = ?, activity_type = ?, recurring = ?, completed = ?
		 WHERE id = ?`,
		a.Title, a.Description, a.StartTime.UTC(), nullTime(a.EndTime), a.Location,
		nullInt64(a.AssignedTo), a.ActivityType, boolInt(a.Recurring), boolInt(a.Completed), a.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, a.ID)
}

func (s *ActivityStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ActivityStore) query(ctx context.Context, q string, args ...any) ([]model.Activity, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
