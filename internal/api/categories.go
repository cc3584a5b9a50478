package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	categories, err := store.ListCategories(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "categories": categories})
}

// Create handles POST /api/categories. Names are unique per user,
// case-insensitively.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := model.ValidateName(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, "Category "+err.Error())
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, claims.UserID, req.Name)
	if err == store.ErrDuplicateName {
		jsonError(w, http.StatusBadRequest, "You already have a category with this name.")
		return
	}
	if err != nil {
		slog.Error("failed to create category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	slog.Info("category created", "user", claims.Username, "category", category.Name)
	jsonResponse(w, http.StatusCreated, map[string]any{"success": true, "category": category})
}
