package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/images"
	"github.com/erazemk/shramba/internal/model"
)

func testInventory(t *testing.T, database *sql.DB) *model.Inventory {
	t.Helper()
	user := createTestUser(t, database, "alice", "alice@example.com")
	inv, err := CreateInventory(context.Background(), database, user.ID, "Pantry", model.DefaultEmoji)
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	return inv
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func testImageBlob(t *testing.T) *images.Blob {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})

	blob, err := images.Prepare(&buf)
	if err != nil {
		t.Fatalf("preparing test image: %v", err)
	}
	return blob
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	category, err := CreateCategory(ctx, database, inv.UserID, "Food")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	item, err := CreateItem(ctx, database, inv.ID, ItemParams{
		Name:           "Pasta",
		Brand:          "Barilla",
		Description:    "Spaghetti n.5",
		ExpirationDate: date("2026-01-15"),
		Quantity:       3,
		CategoryID:     &category.ID,
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := GetItem(ctx, database, item.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Pasta" || got.Brand != "Barilla" || got.Description != "Spaghetti n.5" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if got.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", got.Quantity)
	}
	if got.ExpirationDate == nil || got.ExpirationDate.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("expected expiration 2026-01-15, got %v", got.ExpirationDate)
	}
	if got.CategoryID == nil || *got.CategoryID != category.ID {
		t.Errorf("expected category %d, got %v", category.ID, got.CategoryID)
	}
	if got.CategoryName != "Food" {
		t.Errorf("expected joined category name 'Food', got %q", got.CategoryName)
	}
}

func TestGetItemWrongInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	other, err := CreateInventory(ctx, database, inv.UserID, "Garage", model.DefaultEmoji)
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}

	item, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta"}, nil)

	got, err := GetItem(ctx, database, item.ID, other.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Error("expected nil for item in another inventory")
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	item, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta", Quantity: 1}, nil)

	updated, err := UpdateItem(ctx, database, item.ID, inv.ID, ItemParams{
		Name:           "Rice",
		Brand:          "Scotti",
		ExpirationDate: date("2027-03-01"),
		Quantity:       5,
	}, nil, false)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "Rice" || updated.Brand != "Scotti" || updated.Quantity != 5 {
		t.Errorf("unexpected fields after update: %+v", updated)
	}

	// Clearing the expiration date by leaving it unset.
	cleared, err := UpdateItem(ctx, database, item.ID, inv.ID, ItemParams{Name: "Rice", Quantity: 5}, nil, false)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if cleared.ExpirationDate != nil {
		t.Errorf("expected nil expiration date, got %v", cleared.ExpirationDate)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	inv := testInventory(t, database)

	_, err := UpdateItem(context.Background(), database, 999, inv.ID, ItemParams{Name: "Ghost"}, nil, false)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	item, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta"}, nil)

	if err := DeleteItem(ctx, database, item.ID, inv.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if got, _ := GetItem(ctx, database, item.ID, inv.ID); got != nil {
		t.Error("expected item to be gone")
	}
	if err := DeleteItem(ctx, database, item.ID, inv.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAdjustItemQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	item, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta", Quantity: 2}, nil)

	qty, err := AdjustItemQuantity(ctx, database, item.ID, inv.ID, 3)
	if err != nil {
		t.Fatalf("AdjustItemQuantity: %v", err)
	}
	if qty != 5 {
		t.Errorf("expected quantity 5, got %d", qty)
	}

	// Decreasing below zero clamps at zero.
	qty, err = AdjustItemQuantity(ctx, database, item.ID, inv.ID, -8)
	if err != nil {
		t.Fatalf("AdjustItemQuantity: %v", err)
	}
	if qty != 0 {
		t.Errorf("expected quantity clamped to 0, got %d", qty)
	}

	if _, err := AdjustItemQuantity(ctx, database, 999, inv.ID, 1); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListItemsSortByExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Jam", ExpirationDate: date("2025-01-01")}, nil)
	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Salt"}, nil)
	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Milk", ExpirationDate: date("2024-06-01")}, nil)

	page, err := ListItems(ctx, database, inv.ID, model.SortExpiryAsc, 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := itemNames(page.Items); got != "Milk,Jam,Salt" {
		t.Errorf("expiry_asc: expected Milk,Jam,Salt, got %s", got)
	}

	// Descending still puts undated items last.
	page, err = ListItems(ctx, database, inv.ID, model.SortExpiryDesc, 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := itemNames(page.Items); got != "Jam,Milk,Salt" {
		t.Errorf("expiry_desc: expected Jam,Milk,Salt, got %s", got)
	}
}

func TestListItemsSortByQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Jam", Quantity: 5}, nil)
	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Salt", Quantity: 1}, nil)
	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Milk", Quantity: 3}, nil)

	page, err := ListItems(ctx, database, inv.ID, model.SortQuantityAsc, 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := itemNames(page.Items); got != "Salt,Milk,Jam" {
		t.Errorf("quantity_asc: expected Salt,Milk,Jam, got %s", got)
	}

	page, err = ListItems(ctx, database, inv.ID, model.SortQuantityDesc, 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := itemNames(page.Items); got != "Jam,Milk,Salt" {
		t.Errorf("quantity_desc: expected Jam,Milk,Salt, got %s", got)
	}
}

func itemNames(items []model.Item) string {
	var buf bytes.Buffer
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(item.Name)
	}
	return buf.String()
}

func TestListItemsPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	for i := 0; i < PageSize+1; i++ {
		if _, err := CreateItem(ctx, database, inv.ID, ItemParams{Name: fmt.Sprintf("Item %d", i)}, nil); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	page, err := ListItems(ctx, database, inv.ID, "", 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if page.Total != PageSize+1 {
		t.Errorf("expected total %d, got %d", PageSize+1, page.Total)
	}
	if page.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", page.PageCount)
	}
	if len(page.Items) != PageSize {
		t.Errorf("expected %d items on page 1, got %d", PageSize, len(page.Items))
	}

	page, err = ListItems(ctx, database, inv.ID, "", 2)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("expected 1 item on page 2, got %d", len(page.Items))
	}

	// Out-of-range pages clamp to the nearest valid page.
	page, _ = ListItems(ctx, database, inv.ID, "", 0)
	if page.Page != 1 {
		t.Errorf("expected page 0 to clamp to 1, got %d", page.Page)
	}
	page, _ = ListItems(ctx, database, inv.ID, "", 99)
	if page.Page != 2 {
		t.Errorf("expected page 99 to clamp to 2, got %d", page.Page)
	}
}

func TestListItemsEmptyInventory(t *testing.T) {
	database := db.NewTestDB(t)
	inv := testInventory(t, database)

	page, err := ListItems(context.Background(), database, inv.ID, "", 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if page.Total != 0 || page.PageCount != 1 || page.Page != 1 {
		t.Errorf("expected empty first page, got %+v", page)
	}
}

func TestBulkDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	other, _ := CreateInventory(ctx, database, inv.UserID, "Garage", model.DefaultEmoji)

	a, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "A"}, nil)
	b, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "B"}, nil)
	keep, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Keep"}, nil)
	foreign, _ := CreateItem(ctx, database, other.ID, ItemParams{Name: "Foreign"}, nil)

	// The foreign item's ID is out of scope and must be ignored.
	err := BulkAction(ctx, database, inv.ID, []int64{a.ID, b.ID, foreign.ID}, model.BulkDelete, 0)
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}

	if got, _ := GetItem(ctx, database, a.ID, inv.ID); got != nil {
		t.Error("expected item A to be deleted")
	}
	if got, _ := GetItem(ctx, database, b.ID, inv.ID); got != nil {
		t.Error("expected item B to be deleted")
	}
	if got, _ := GetItem(ctx, database, keep.ID, inv.ID); got == nil {
		t.Error("expected unselected item to survive")
	}
	if got, _ := GetItem(ctx, database, foreign.ID, other.ID); got == nil {
		t.Error("expected item in another inventory to survive")
	}
}

func TestBulkAdjust(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	a, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "A", Quantity: 2}, nil)
	b, _ := CreateItem(ctx, database, inv.ID, ItemParams{Name: "B", Quantity: 10}, nil)

	if err := BulkAction(ctx, database, inv.ID, []int64{a.ID, b.ID}, model.BulkIncrease, 3); err != nil {
		t.Fatalf("BulkAction increase: %v", err)
	}

	got, _ := GetItem(ctx, database, a.ID, inv.ID)
	if got.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", got.Quantity)
	}

	// Decrease clamps each item independently.
	if err := BulkAction(ctx, database, inv.ID, []int64{a.ID, b.ID}, model.BulkDecrease, 7); err != nil {
		t.Fatalf("BulkAction decrease: %v", err)
	}

	got, _ = GetItem(ctx, database, a.ID, inv.ID)
	if got.Quantity != 0 {
		t.Errorf("expected quantity clamped to 0, got %d", got.Quantity)
	}
	got, _ = GetItem(ctx, database, b.ID, inv.ID)
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", got.Quantity)
	}
}

func TestBulkActionInvalid(t *testing.T) {
	database := db.NewTestDB(t)
	inv := testInventory(t, database)

	err := BulkAction(context.Background(), database, inv.ID, []int64{1}, "explode", 1)
	if err != ErrInvalidAction {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

func TestItemImageLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	blob := testImageBlob(t)
	item, err := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta"}, blob)
	if err != nil {
		t.Fatalf("CreateItem with image: %v", err)
	}
	if item.ImageRef != blob.Ref {
		t.Errorf("expected image ref %q, got %q", blob.Ref, item.ImageRef)
	}

	data, mime, err := images.Get(ctx, database, item.ImageRef)
	if err != nil {
		t.Fatalf("images.Get: %v", err)
	}
	if data == nil || mime != "image/jpeg" {
		t.Errorf("expected stored JPEG, got mime %q", mime)
	}
	thumb, _, err := images.GetThumbnail(ctx, database, item.ImageRef)
	if err != nil {
		t.Fatalf("images.GetThumbnail: %v", err)
	}
	if thumb == nil {
		t.Error("expected stored thumbnail")
	}

	// Replacing the image deletes the old blob.
	replacement := testImageBlob(t)
	item, err = UpdateItem(ctx, database, item.ID, inv.ID, ItemParams{Name: "Pasta"}, replacement, false)
	if err != nil {
		t.Fatalf("UpdateItem with new image: %v", err)
	}
	if item.ImageRef != replacement.Ref {
		t.Errorf("expected new image ref %q, got %q", replacement.Ref, item.ImageRef)
	}
	if data, _, _ := images.Get(ctx, database, blob.Ref); data != nil {
		t.Error("expected old blob to be deleted")
	}

	// Removing the image clears the ref and deletes the blob.
	item, err = UpdateItem(ctx, database, item.ID, inv.ID, ItemParams{Name: "Pasta"}, nil, true)
	if err != nil {
		t.Fatalf("UpdateItem remove image: %v", err)
	}
	if item.ImageRef != "" {
		t.Errorf("expected empty image ref, got %q", item.ImageRef)
	}
	if data, _, _ := images.Get(ctx, database, replacement.Ref); data != nil {
		t.Error("expected removed blob to be deleted")
	}
}

func TestDeleteItemRemovesImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	inv := testInventory(t, database)

	blob := testImageBlob(t)
	item, err := CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta"}, blob)
	if err != nil {
		t.Fatalf("CreateItem with image: %v", err)
	}

	if err := DeleteItem(ctx, database, item.ID, inv.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if data, _, _ := images.Get(ctx, database, blob.Ref); data != nil {
		t.Error("expected blob to be deleted with the item")
	}
}
