package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/images"
	"github.com/erazemk/shramba/internal/model"
)

// PageSize is the fixed number of items per listing page.
const PageSize = 60

// dateLayout is the storage format for expiration dates.
const dateLayout = "2006-01-02"

// ItemParams holds the writable fields of an item.
type ItemParams struct {
	Name           string
	Brand          string
	Description    string
	ExpirationDate *time.Time
	Quantity       int
	CategoryID     *int64
}

const itemColumns = `i.id, i.inventory_id, i.name, i.brand, i.description,
	i.expiration_date, i.quantity, i.category_id, c.name, i.image_ref,
	i.created_at, i.updated_at`

const itemFrom = `FROM items i LEFT JOIN categories c ON c.id = i.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var brand, description, expiration, categoryName, imageRef sql.NullString
	var categoryID sql.NullInt64

	err := row.Scan(&item.ID, &item.InventoryID, &item.Name, &brand, &description,
		&expiration, &item.Quantity, &categoryID, &categoryName, &imageRef,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.Brand = brand.String
	item.Description = description.String
	item.CategoryName = categoryName.String
	item.ImageRef = imageRef.String
	if categoryID.Valid {
		item.CategoryID = &categoryID.Int64
	}
	if expiration.Valid {
		date, err := time.Parse(dateLayout, expiration.String)
		if err != nil {
			return nil, fmt.Errorf("parsing expiration date: %w", err)
		}
		item.ExpirationDate = &date
	}
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

// CreateItem creates an item in an inventory. If img is non-nil, the
// image blob and the item row are committed in one transaction.
func CreateItem(ctx context.Context, db *sql.DB, inventoryID int64, p ItemParams, img *images.Blob) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var imageRef sql.NullString
	if img != nil {
		if err := images.Insert(ctx, tx, img); err != nil {
			return nil, err
		}
		imageRef = nullString(img.Ref)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (inventory_id, name, brand, description, expiration_date, quantity, category_id, image_ref)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inventoryID, p.Name, nullString(p.Brand), nullString(p.Description),
		nullDate(p.ExpirationDate), p.Quantity, p.CategoryID, imageRef,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item creation: %w", err)
	}

	return GetItem(ctx, db, id, inventoryID)
}

// GetItem returns an item by ID, scoped to an inventory.
func GetItem(ctx context.Context, db *sql.DB, id, inventoryID int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` `+itemFrom+` WHERE i.id = ? AND i.inventory_id = ?`,
		id, inventoryID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// UpdateItem updates an item's fields. A new image replaces (and deletes)
// the previous blob; removeImage clears the image without supplying a new
// one. All of it happens in one transaction. Returns ErrNotFound if the
// item is not in the given inventory.
func UpdateItem(ctx context.Context, db *sql.DB, id, inventoryID int64, p ItemParams, img *images.Blob, removeImage bool) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var oldRef sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT image_ref FROM items WHERE id = ? AND inventory_id = ?`,
		id, inventoryID,
	).Scan(&oldRef)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	imageRef := oldRef
	switch {
	case img != nil:
		if err := images.Insert(ctx, tx, img); err != nil {
			return nil, err
		}
		if oldRef.Valid {
			if err := images.Delete(ctx, tx, oldRef.String); err != nil {
				return nil, err
			}
		}
		imageRef = nullString(img.Ref)
	case removeImage && oldRef.Valid:
		if err := images.Delete(ctx, tx, oldRef.String); err != nil {
			return nil, err
		}
		imageRef = sql.NullString{}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET name = ?, brand = ?, description = ?, expiration_date = ?,
		        quantity = ?, category_id = ?, image_ref = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND inventory_id = ?`,
		p.Name, nullString(p.Brand), nullString(p.Description), nullDate(p.ExpirationDate),
		p.Quantity, p.CategoryID, imageRef, id, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, id, inventoryID)
}

// DeleteItem deletes an item and its stored image, if any.
func DeleteItem(ctx context.Context, db *sql.DB, id, inventoryID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var imageRef sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT image_ref FROM items WHERE id = ? AND inventory_id = ?`,
		id, inventoryID,
	).Scan(&imageRef)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}

	if imageRef.Valid {
		if err := images.Delete(ctx, tx, imageRef.String); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND inventory_id = ?`, id, inventoryID,
	); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// AdjustItemQuantity changes an item's quantity by delta, clamping at
// zero on decrease. Returns the new quantity.
func AdjustItemQuantity(ctx context.Context, db *sql.DB, id, inventoryID int64, delta int) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM items WHERE id = ? AND inventory_id = ?`,
		id, inventoryID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("checking quantity: %w", err)
	}

	newQty := current + delta
	if newQty < 0 {
		newQty = 0
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND inventory_id = ?`,
		newQty, id, inventoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("adjusting quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing adjustment: %w", err)
	}
	return newQty, nil
}

// ItemPage is one page of a listed inventory.
type ItemPage struct {
	Items     []model.Item `json:"items"`
	Page      int          `json:"page"`
	PageCount int          `json:"page_count"`
	Total     int          `json:"total"`
}

// ListItems returns one page of an inventory's items. Sort is one of the
// model.Sort* values; anything else falls back to most recently updated
// first. Expiry sorts always put items without a date last, in both
// directions. Out-of-range page numbers clamp to the nearest valid page.
func ListItems(ctx context.Context, db *sql.DB, inventoryID int64, sort string, page int) (*ItemPage, error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE inventory_id = ?`, inventoryID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	pageCount := (total + PageSize - 1) / PageSize
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	var orderBy string
	switch sort {
	case model.SortExpiryAsc:
		orderBy = `(i.expiration_date IS NULL), i.expiration_date ASC, i.id ASC`
	case model.SortExpiryDesc:
		orderBy = `(i.expiration_date IS NULL), i.expiration_date DESC, i.id ASC`
	case model.SortQuantityAsc:
		orderBy = `i.quantity ASC, i.id ASC`
	case model.SortQuantityDesc:
		orderBy = `i.quantity DESC, i.id ASC`
	default:
		orderBy = `i.updated_at DESC, i.id DESC`
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` `+itemFrom+`
		 WHERE i.inventory_id = ?
		 ORDER BY `+orderBy+`
		 LIMIT ? OFFSET ?`,
		inventoryID, PageSize, (page-1)*PageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ItemPage{Items: items, Page: page, PageCount: pageCount, Total: total}, nil
}

// BulkAction applies an action to a set of items. Only items that belong
// to the given inventory are touched; other IDs are silently ignored.
// Deletes happen in one transaction; quantity adjustments are applied per
// item independently and are not rolled back on partial failure.
func BulkAction(ctx context.Context, db *sql.DB, inventoryID int64, itemIDs []int64, action string, amount int) error {
	if len(itemIDs) == 0 {
		return nil
	}

	switch action {
	case model.BulkDelete:
		return bulkDelete(ctx, db, inventoryID, itemIDs)
	case model.BulkIncrease:
		return bulkAdjust(ctx, db, inventoryID, itemIDs, amount)
	case model.BulkDecrease:
		return bulkAdjust(ctx, db, inventoryID, itemIDs, -amount)
	default:
		return ErrInvalidAction
	}
}

func bulkDelete(ctx context.Context, db *sql.DB, inventoryID int64, itemIDs []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(itemIDs)), ",")
	args := make([]any, 0, len(itemIDs)+1)
	args = append(args, inventoryID)
	for _, id := range itemIDs {
		args = append(args, id)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM images WHERE ref IN (
		     SELECT image_ref FROM items
		     WHERE inventory_id = ? AND id IN (`+placeholders+`) AND image_ref IS NOT NULL
		 )`, args...,
	)
	if err != nil {
		return fmt.Errorf("deleting item images: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM items WHERE inventory_id = ? AND id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bulk delete: %w", err)
	}
	return nil
}

func bulkAdjust(ctx context.Context, db *sql.DB, inventoryID int64, itemIDs []int64, delta int) error {
	for _, id := range itemIDs {
		_, err := AdjustItemQuantity(ctx, db, id, inventoryID, delta)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
