package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

// CreateInventory creates a new inventory for a user. The (user, name)
// pair is unique; a conflict returns ErrDuplicateName.
func CreateInventory(ctx context.Context, db *sql.DB, userID int64, name, emoji string) (*model.Inventory, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO inventories (user_id, name, emoji) VALUES (?, ?, ?)`,
		userID, name, emoji,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("creating inventory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory id: %w", err)
	}

	return GetInventory(ctx, db, id, userID)
}

// GetInventory returns an inventory by ID, scoped to its owner. Another
// user's inventory is indistinguishable from a missing one.
func GetInventory(ctx context.Context, db *sql.DB, id, userID int64) (*model.Inventory, error) {
	inv := &model.Inventory{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, emoji, created_at, updated_at
		 FROM inventories WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.Emoji, &inv.CreatedAt, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	return inv, nil
}

// ListInventories returns a user's inventories, newest first.
func ListInventories(ctx context.Context, db *sql.DB, userID int64) ([]model.Inventory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, emoji, created_at, updated_at
		 FROM inventories WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventories: %w", err)
	}
	defer rows.Close()

	var inventories []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.Emoji, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		inventories = append(inventories, inv)
	}
	return inventories, rows.Err()
}

// UpdateInventory renames or re-tags an inventory. Returns ErrNotFound if
// the inventory doesn't exist or belongs to someone else, ErrDuplicateName
// if the new name collides with a sibling.
func UpdateInventory(ctx context.Context, db *sql.DB, id, userID int64, name, emoji string) (*model.Inventory, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE inventories SET name = ?, emoji = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		name, emoji, id, userID,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("updating inventory: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return GetInventory(ctx, db, id, userID)
}

// DeleteInventory deletes an inventory and all of its items atomically.
// Item rows go through the foreign key cascade; image blobs are removed
// in the same transaction.
func DeleteInventory(ctx context.Context, db *sql.DB, id, userID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM images WHERE ref IN (
		     SELECT image_ref FROM items WHERE inventory_id = ? AND image_ref IS NOT NULL
		 )`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory images: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM inventories WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inventory deletion: %w", err)
	}
	return nil
}

// InventorySummary is an inventory with item counts for the dashboard.
type InventorySummary struct {
	model.Inventory
	ItemCount    int `json:"item_count"`
	LowStock     int `json:"low_stock"`
	ExpiringSoon int `json:"expiring_soon"`
}

// ListInventorySummaries returns a user's inventories, newest first, with
// total, low-stock and expiring-soon item counts.
func ListInventorySummaries(ctx context.Context, db *sql.DB, userID int64) ([]InventorySummary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT inv.id, inv.user_id, inv.name, inv.emoji, inv.created_at, inv.updated_at,
		        COUNT(i.id),
		        COALESCE(SUM(i.quantity <= ?), 0),
		        COALESCE(SUM(i.expiration_date IS NOT NULL
		                     AND i.expiration_date >= date('now')
		                     AND i.expiration_date <= date('now', ?)), 0)
		 FROM inventories inv
		 LEFT JOIN items i ON i.inventory_id = inv.id
		 WHERE inv.user_id = ?
		 GROUP BY inv.id
		 ORDER BY inv.created_at DESC, inv.id DESC`,
		model.LowStockThreshold, fmt.Sprintf("+%d day", model.ExpiringSoonDays), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory summaries: %w", err)
	}
	defer rows.Close()

	var summaries []InventorySummary
	for rows.Next() {
		var s InventorySummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Emoji, &s.CreatedAt, &s.UpdatedAt,
			&s.ItemCount, &s.LowStock, &s.ExpiringSoon); err != nil {
			return nil, fmt.Errorf("scanning inventory summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
