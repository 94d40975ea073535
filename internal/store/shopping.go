package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/repository"
)

// ShoppingStore persists shopping lists and their items. A ShoppingStore
// handed out by WithTx is bound to that transaction.
type ShoppingStore struct {
	db *sql.DB
	q  querier
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db, q: db}
}

var _ repository.ShoppingLists = (*ShoppingStore)(nil)

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (s *ShoppingStore) WithTx(ctx context.Context, fn func(repository.ShoppingWriter) error) error {
	return s.withTx(ctx, func(txs *ShoppingStore) error { return fn(txs) })
}

func (s *ShoppingStore) withTx(ctx context.Context, fn func(*ShoppingStore) error) error {
	if s.db == nil {
		// Already inside a transaction.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&ShoppingStore{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- List methods ---

func scanList(sc scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var createdBy sql.NullInt64
	var completed int
	err := sc.Scan(&l.ID, &l.Name, &createdBy, &completed, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.CreatedBy = int64Ptr(createdBy)
	l.Completed = completed != 0
	return &l, nil
}

const listCols = `id, name, created_by, completed, created_at`

func (s *ShoppingStore) CreateList(ctx context.Context, name string, createdBy *int64) (*model.ShoppingList, error) {
	result, err := s.q.ExecContext(ctx,
		`INSERT INTO shopping_lists (name, created_by) VALUES (?, ?)`,
		name, nullInt64(createdBy),
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetList(ctx, id)
}

func (s *ShoppingStore) GetList(ctx context.Context, id int64) (*model.ShoppingList, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ShoppingStore) ListLists(ctx context.Context) ([]model.ShoppingList, error) {
	return s.queryLists(ctx, `SELECT `+listCols+` FROM shopping_lists ORDER BY id ASC`)
}

func (s *ShoppingStore) ListListsByUser(ctx context.Context, userID int64) ([]model.ShoppingList, error) {
	return s.queryLists(ctx, `SELECT `+listCols+` FROM shopping_lists WHERE created_by = ? ORDER BY id ASC`, userID)
}

func (s *ShoppingStore) UpdateList(ctx context.Context, id int64, name string, completed bool) (*model.ShoppingList, error) {
	result, err := s.q.ExecContext(ctx,
		`UPDATE shopping_lists SET name = ?, completed = ? WHERE id = ?`,
		name, boolInt(completed), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetList(ctx, id)
}

// DeleteList removes a list together with all of its items and reports
// whether the list existed.
func (s *ShoppingStore) DeleteList(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(txs *ShoppingStore) error {
		if _, err := txs.q.ExecContext(ctx, `DELETE FROM shopping_items WHERE list_id = ?`, id); err != nil {
			return fmt.Errorf("delete list items: %w", err)
		}
		result, err := txs.q.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func (s *ShoppingStore) queryLists(ctx context.Context, q string, args ...any) ([]model.ShoppingList, error) {
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// --- Item methods ---

func scanItem(sc scanner) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var addedBy sql.NullInt64
	var completed int

	err := sc.Scan(
		&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Category,
		&completed, &addedBy, &item.RelatedMeal, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Completed = completed != 0
	item.AddedBy = int64Ptr(addedBy)
	return &item, nil
}

const itemCols = `id, list_id, name, quantity, category, completed, added_by, related_meal, created_at`

func (s *ShoppingStore) GetItem(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+itemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ShoppingStore) CreateItem(ctx context.Context, in model.NewShoppingItem) (*model.ShoppingItem, error) {
	result, err := s.q.ExecContext(ctx,
		`INSERT INTO shopping_items (list_id, name, quantity, category, completed, added_by, related_meal) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ListID, in.Name, in.Quantity, in.Category, boolInt(in.Completed), nullInt64(in.AddedBy), in.RelatedMeal,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, id)
}

func (s *ShoppingStore) ListItemsByList(ctx context.Context, listID int64) ([]model.ShoppingItem, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+itemCols+` FROM shopping_items WHERE list_id = ? ORDER BY id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) UpdateItem(ctx context.Context, item model.ShoppingItem) (*model.ShoppingItem, error) {
	result, err := s.q.ExecContext(ctx,
		`UPDATE shopping_items SET name = ?, quantity = ?, category = ?, completed = ?, related_meal = ? WHERE id = ?`,
		item.Name, item.Quantity, item.Category, boolInt(item.Completed), item.RelatedMeal, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetItem(ctx, item.ID)
}

// ToggleCompleted flips an item's completion flag. Returns (nil, nil) when
// the item does not exist.
func (s *ShoppingStore) ToggleCompleted(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	result, err := s.q.ExecContext(ctx,
		`UPDATE shopping_items SET completed = 1 - completed WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle completed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetItem(ctx, id)
}

func (s *ShoppingStore) DeleteItem(ctx context.Context, id int64) (bool, error) {
	result, err := s.q.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
