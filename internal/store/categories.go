package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

// CreateCategory creates a category for a user. Names are unique per user
// case-insensitively; a conflict returns ErrDuplicateName.
func CreateCategory(ctx context.Context, db *sql.DB, userID int64, name string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name) VALUES (?, ?)`,
		userID, name,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id, userID)
}

// GetCategory returns a category by ID, scoped to its owner.
func GetCategory(ctx context.Context, db *sql.DB, id, userID int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns a user's categories, alphabetically.
func ListCategories(ctx context.Context, db *sql.DB, userID int64) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories WHERE user_id = ? ORDER BY name COLLATE NOCASE`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory deletes a category. Items referencing it are detached
// (category set to NULL by the foreign key), never deleted.
func DeleteCategory(ctx context.Context, db *sql.DB, id, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
