package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	db "food-storefront/internal/catalog/db"
)

// Repository is a database-backed menu store. Items keep the order in which
// they were saved.
type Repository struct {
	queries *db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: db.New(d),
		db:      d,
	}
}

// ReplaceAll swaps the whole menu for items in one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, items []MenuItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllMenuItems(ctx); err != nil {
		return fmt.Errorf("failed to clear menu items: %w", err)
	}

	now := time.Now().UTC()
	for i, item := range items {
		if err := save(ctx, q, item, i, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit menu replacement: %w", err)
	}
	return nil
}

func save(ctx context.Context, q *db.Queries, item MenuItem, position int, updatedAt time.Time) error {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal menu item %d to JSON: %w", item.ID, err)
	}

	params := db.UpsertMenuItemParams{
		ID:        item.ID,
		Category:  item.Category,
		Position:  int64(position),
		Data:      string(itemJSON),
		UpdatedAt: updatedAt,
	}
	if err := q.UpsertMenuItem(ctx, params); err != nil {
		return fmt.Errorf("failed to save menu item %d: %w", item.ID, err)
	}
	return nil
}

// Get retrieves a menu item by its ID. It returns nil if the item does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*MenuItem, error) {
	row, err := r.queries.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get menu item by ID: %w", err)
	}

	var item MenuItem
	if err := json.Unmarshal([]byte(row.Data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu item JSON: %w", err)
	}
	return &item, nil
}

// List returns the full menu in saved order.
func (r *Repository) List(ctx context.Context) (Menu, error) {
	rows, err := r.queries.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return decodeRows(rows)
}

// ListByCategory returns the items of one category in saved order.
func (r *Repository) ListByCategory(ctx context.Context, category string) (Menu, error) {
	rows, err := r.queries.ListMenuItemsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items for category %q: %w", category, err)
	}
	return decodeRows(rows)
}

// Count returns the number of menu items in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountMenuItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return int(count), nil
}

func decodeRows(rows []db.MenuItem) (Menu, error) {
	menu := make(Menu, 0, len(rows))
	for _, row := range rows {
		var item MenuItem
		if err := json.Unmarshal([]byte(row.Data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal menu item %d: %w", row.ID, err)
		}
		menu = append(menu, item)
	}
	return menu, nil
}
