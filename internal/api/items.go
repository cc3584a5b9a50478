package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/shramba/internal/images"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// maxUploadSize limits item form submissions (image included).
const maxUploadSize = 10 << 20

// ItemsHandler handles item endpoints, all scoped to an inventory.
type ItemsHandler struct {
	DB *sql.DB
}

// itemPayload is the JSON shape of an item in responses.
func itemPayload(item *model.Item) map[string]any {
	payload := map[string]any{
		"id":            item.ID,
		"name":          item.Name,
		"brand":         item.Brand,
		"description":   item.Description,
		"quantity":      item.Quantity,
		"category":      item.CategoryName,
		"image_url":     images.URL(item.ImageRef),
		"thumbnail_url": images.ThumbnailURL(item.ImageRef),
		"low_stock":     item.LowStock(),
		"expiring_soon": item.ExpiringSoon(time.Now()),
		"created_at":    item.CreatedAt,
		"updated_at":    item.UpdatedAt,
	}
	if item.ExpirationDate != nil {
		payload["expiration_date"] = item.ExpirationDate.Format("2006-01-02")
	}
	return payload
}

// inventoryForRequest resolves the {id} path value to an inventory owned
// by the caller, writing the error response itself when it can't.
func (h *ItemsHandler) inventoryForRequest(w http.ResponseWriter, r *http.Request) *model.Inventory {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return nil
	}

	inv, err := store.GetInventory(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		slog.Error("failed to get inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if inv == nil {
		jsonError(w, http.StatusNotFound, "inventory not found")
		return nil
	}
	return inv
}

// parseItemForm reads the multipart item form into params, an optional
// prepared image and the remove_image flag. Validation problems come
// back as per-field messages.
func (h *ItemsHandler) parseItemForm(w http.ResponseWriter, r *http.Request) (store.ItemParams, *images.Blob, bool, map[string][]string) {
	var params store.ItemParams
	errors := make(map[string][]string)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		errors["form"] = append(errors["form"], "Form too large or invalid.")
		return params, nil, false, errors
	}

	params.Name = r.FormValue("name")
	if err := model.ValidateName(params.Name); err != nil {
		errors["name"] = append(errors["name"], "Item "+err.Error())
	}

	params.Brand = r.FormValue("brand")
	params.Description = r.FormValue("description")

	// Missing quantity means zero.
	if qty := r.FormValue("quantity"); qty != "" {
		n, err := strconv.Atoi(qty)
		if err != nil {
			errors["quantity"] = append(errors["quantity"], "Quantity must be a whole number.")
		} else if n < 0 {
			errors["quantity"] = append(errors["quantity"], "Quantity cannot be negative.")
		} else {
			params.Quantity = n
		}
	}

	if date := r.FormValue("expiration_date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			errors["expiration_date"] = append(errors["expiration_date"], "Expiration date must be YYYY-MM-DD.")
		} else {
			params.ExpirationDate = &parsed
		}
	}

	if category := r.FormValue("category"); category != "" {
		id, err := strconv.ParseInt(category, 10, 64)
		if err != nil {
			errors["category"] = append(errors["category"], "Invalid category.")
		} else {
			claims := GetClaims(r.Context())
			cat, err := store.GetCategory(r.Context(), h.DB, id, claims.UserID)
			if err != nil {
				slog.Error("failed to get category", "error", err)
				errors["category"] = append(errors["category"], "Invalid category.")
			} else if cat == nil {
				errors["category"] = append(errors["category"], "Invalid category.")
			} else {
				params.CategoryID = &cat.ID
			}
		}
	}

	removeImage := false
	switch r.FormValue("remove_image") {
	case "1", "true", "on":
		removeImage = true
	}

	var img *images.Blob
	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		img, err = images.Prepare(file)
		if err != nil {
			errors["image"] = append(errors["image"], err.Error())
		}
	} else if err != http.ErrMissingFile {
		errors["image"] = append(errors["image"], "Invalid image upload.")
	}

	return params, img, removeImage, errors
}

// List handles GET /api/inventories/{id}/items. Supports sort and page
// query parameters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			page = n
		}
	}

	result, err := store.ListItems(r.Context(), h.DB, inv.ID, r.URL.Query().Get("sort"), page)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	payloads := make([]map[string]any, 0, len(result.Items))
	for i := range result.Items {
		payloads = append(payloads, itemPayload(&result.Items[i]))
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"success":    true,
		"inventory":  inv,
		"items":      payloads,
		"page":       result.Page,
		"page_count": result.PageCount,
		"total":      result.Total,
	})
}

// Get handles GET /api/inventories/{id}/items/{itemID}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, itemID, inv.ID)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "item": itemPayload(item)})
}

// Create handles POST /api/inventories/{id}/items (multipart form).
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	params, img, _, errors := h.parseItemForm(w, r)
	if len(errors) > 0 {
		jsonFieldErrors(w, errors)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, inv.ID, params, img)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item created", "user", claims.Username, "inventory", inv.Name, "item", item.Name)
	jsonResponse(w, http.StatusCreated, map[string]any{"success": true, "item": itemPayload(item)})
}

// Update handles POST /api/inventories/{id}/items/{itemID} (multipart
// form, with an optional remove_image flag).
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	params, img, removeImage, errors := h.parseItemForm(w, r)
	if len(errors) > 0 {
		jsonFieldErrors(w, errors)
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, itemID, inv.ID, params, img, removeImage)
	if err == store.ErrNotFound {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "item": itemPayload(item)})
}

// Delete handles DELETE /api/inventories/{id}/items/{itemID}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	err = store.DeleteItem(r.Context(), h.DB, itemID, inv.ID)
	if err == store.ErrNotFound {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

type quantityRequest struct {
	Action string `json:"action"`
	Amount *int   `json:"amount"`
}

// Quantity handles POST /api/inventories/{id}/items/{itemID}/quantity.
// Decreases clamp at zero.
func (h *ItemsHandler) Quantity(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount < 1 {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	var delta int
	switch req.Action {
	case "increase":
		delta = amount
	case "decrease":
		delta = -amount
	default:
		jsonError(w, http.StatusBadRequest, "invalid action")
		return
	}

	quantity, err := store.AdjustItemQuantity(r.Context(), h.DB, itemID, inv.ID, delta)
	if err == store.ErrNotFound {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to adjust quantity", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to adjust quantity")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "quantity": quantity})
}

type bulkRequest struct {
	Action  string  `json:"action"`
	ItemIDs []int64 `json:"item_ids"`
	Amount  *int    `json:"amount"`
}

// Bulk handles POST /api/inventories/{id}/bulk. Items outside the
// inventory are silently ignored.
func (h *ItemsHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	inv := h.inventoryForRequest(w, r)
	if inv == nil {
		return
	}

	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount < 1 {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	err := store.BulkAction(r.Context(), h.DB, inv.ID, req.ItemIDs, req.Action, amount)
	if err == store.ErrInvalidAction {
		jsonError(w, http.StatusBadRequest, "invalid action")
		return
	}
	if err != nil {
		slog.Error("bulk action failed", "error", err, "action", req.Action)
		jsonError(w, http.StatusInternalServerError, "bulk action failed")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("bulk action applied", "user", claims.Username, "inventory", inv.Name,
		"action", req.Action, "items", len(req.ItemIDs))
	jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
