package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// InventoriesHandler handles inventory CRUD endpoints.
type InventoriesHandler struct {
	DB *sql.DB
}

type inventoryRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// validateInventoryRequest normalizes and checks an inventory payload.
// Returns an error message, or "" if the payload is fine.
func validateInventoryRequest(req *inventoryRequest) string {
	if err := model.ValidateName(req.Name); err != nil {
		return "Inventory " + err.Error()
	}
	if req.Emoji == "" {
		req.Emoji = model.DefaultEmoji
	}
	if !model.ValidEmoji(req.Emoji) {
		return "Invalid emoji."
	}
	return ""
}

// List handles GET /api/inventories.
func (h *InventoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	inventories, err := store.ListInventories(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to list inventories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventories")
		return
	}
	if inventories == nil {
		inventories = []model.Inventory{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "inventories": inventories})
}

// Dashboard handles GET /api/dashboard.
func (h *InventoriesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	summaries, err := store.ListInventorySummaries(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to load dashboard", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	if summaries == nil {
		summaries = []store.InventorySummary{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "inventories": summaries})
}

// Create handles POST /api/inventories.
func (h *InventoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req inventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateInventoryRequest(&req); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	inv, err := store.CreateInventory(r.Context(), h.DB, claims.UserID, req.Name, req.Emoji)
	if err == store.ErrDuplicateName {
		jsonError(w, http.StatusBadRequest, "You already have an inventory with this name.")
		return
	}
	if err != nil {
		slog.Error("failed to create inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create inventory")
		return
	}

	slog.Info("inventory created", "user", claims.Username, "inventory", inv.Name)
	jsonResponse(w, http.StatusCreated, map[string]any{"success": true, "inventory": inv})
}

// Update handles PUT /api/inventories/{id}.
func (h *InventoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req inventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateInventoryRequest(&req); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	inv, err := store.UpdateInventory(r.Context(), h.DB, id, claims.UserID, req.Name, req.Emoji)
	switch {
	case err == store.ErrNotFound:
		jsonError(w, http.StatusNotFound, "inventory not found")
		return
	case err == store.ErrDuplicateName:
		jsonError(w, http.StatusBadRequest, "You already have an inventory with this name.")
		return
	case err != nil:
		slog.Error("failed to update inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update inventory")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "inventory": inv})
}

// Delete handles DELETE /api/inventories/{id}.
func (h *InventoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	err = store.DeleteInventory(r.Context(), h.DB, id, claims.UserID)
	if err == store.ErrNotFound {
		jsonError(w, http.StatusNotFound, "inventory not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete inventory")
		return
	}

	slog.Info("inventory deleted", "user", claims.Username, "inventory_id", id)
	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
