package db

import (
	"context"
	"fmt"
)

// ListCategories retrieves all enabled categories in display order
func (db *DB) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, code, title, enabled, sort_order
		 FROM categories
		 WHERE enabled
		 ORDER BY sort_order, code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Enabled, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryExists reports whether a category with the given code exists
func (db *DB) CategoryExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}
