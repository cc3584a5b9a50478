package store

import (
	"context"
	"testing"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

func TestCreateAndGetInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice", "alice@example.com")

	inv, err := CreateInventory(ctx, database, user.ID, "Pantry", "🍕")
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	if inv.Name != "Pantry" {
		t.Errorf("expected name 'Pantry', got %q", inv.Name)
	}
	if inv.Emoji != "🍕" {
		t.Errorf("expected emoji 🍕, got %q", inv.Emoji)
	}
}

func TestInventoryNameUniquePerUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice", "alice@example.com")
	bob := createTestUser(t, database, "bob", "bob@example.com")

	if _, err := CreateInventory(ctx, database, alice.ID, "Pantry", model.DefaultEmoji); err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}

	// Same name under the same user fails.
	if _, err := CreateInventory(ctx, database, alice.ID, "Pantry", model.DefaultEmoji); err != ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	// Same name under a different user is fine.
	if _, err := CreateInventory(ctx, database, bob.ID, "Pantry", model.DefaultEmoji); err != nil {
		t.Errorf("expected success for other user, got %v", err)
	}
}

func TestListInventoriesNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice", "alice@example.com")
	CreateInventory(ctx, database, user.ID, "First", model.DefaultEmoji)
	CreateInventory(ctx, database, user.ID, "Second", model.DefaultEmoji)
	CreateInventory(ctx, database, user.ID, "Third", model.DefaultEmoji)

	inventories, err := ListInventories(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListInventories: %v", err)
	}
	if len(inventories) != 3 {
		t.Fatalf("expected 3 inventories, got %d", len(inventories))
	}
	if inventories[0].Name != "Third" || inventories[2].Name != "First" {
		t.Errorf("expected newest-first order, got %q, %q, %q",
			inventories[0].Name, inventories[1].Name, inventories[2].Name)
	}
}

func TestInventoryOwnerScoping(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, database, "alice", "alice@example.com")
	bob := createTestUser(t, database, "bob", "bob@example.com")

	inv, _ := CreateInventory(ctx, database, alice.ID, "Pantry", model.DefaultEmoji)

	// Another user can't see, update, or delete it.
	if got, _ := GetInventory(ctx, database, inv.ID, bob.ID); got != nil {
		t.Error("expected nil for another user's inventory")
	}
	if _, err := UpdateInventory(ctx, database, inv.ID, bob.ID, "Stolen", model.DefaultEmoji); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
	if err := DeleteInventory(ctx, database, inv.ID, bob.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}

	// Owner still has it.
	if got, _ := GetInventory(ctx, database, inv.ID, alice.ID); got == nil {
		t.Error("expected owner to still see the inventory")
	}
}

func TestUpdateInventory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice", "alice@example.com")
	inv, _ := CreateInventory(ctx, database, user.ID, "Pantry", model.DefaultEmoji)
	CreateInventory(ctx, database, user.ID, "Garage", "🔧")

	updated, err := UpdateInventory(ctx, database, inv.ID, user.ID, "Kitchen", "🏠")
	if err != nil {
		t.Fatalf("UpdateInventory: %v", err)
	}
	if updated.Name != "Kitchen" || updated.Emoji != "🏠" {
		t.Errorf("expected updated fields, got %q %q", updated.Name, updated.Emoji)
	}

	// Renaming to a sibling's name fails.
	if _, err := UpdateInventory(ctx, database, inv.ID, user.ID, "Garage", model.DefaultEmoji); err != ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestDeleteInventoryCascadesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice", "alice@example.com")
	inv, _ := CreateInventory(ctx, database, user.ID, "Pantry", model.DefaultEmoji)

	for _, name := range []string{"Pasta", "Rice", "Beans"} {
		if _, err := CreateItem(ctx, database, inv.ID, ItemParams{Name: name}, nil); err != nil {
			t.Fatalf("CreateItem(%q): %v", name, err)
		}
	}

	if err := DeleteInventory(ctx, database, inv.ID, user.ID); err != nil {
		t.Fatalf("DeleteInventory: %v", err)
	}

	page, err := ListItems(ctx, database, inv.ID, "", 1)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("expected no items after inventory deletion, got %d", page.Total)
	}
}

func TestListInventorySummaries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, database, "alice", "alice@example.com")
	inv, _ := CreateInventory(ctx, database, user.ID, "Pantry", model.DefaultEmoji)
	CreateInventory(ctx, database, user.ID, "Empty", model.DefaultEmoji)

	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Pasta", Quantity: 10}, nil)
	CreateItem(ctx, database, inv.ID, ItemParams{Name: "Rice", Quantity: 2}, nil)

	summaries, err := ListInventorySummaries(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListInventorySummaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	// Newest first: "Empty" was created last.
	if summaries[0].Name != "Empty" || summaries[0].ItemCount != 0 {
		t.Errorf("expected empty inventory first, got %q with %d items",
			summaries[0].Name, summaries[0].ItemCount)
	}
	if summaries[1].ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", summaries[1].ItemCount)
	}
	if summaries[1].LowStock != 1 {
		t.Errorf("expected 1 low-stock item, got %d", summaries[1].LowStock)
	}
}
