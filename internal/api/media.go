package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/shramba/internal/images"
)

// MediaHandler serves stored item images and thumbnails.
type MediaHandler struct {
	DB *sql.DB
}

func (h *MediaHandler) serve(w http.ResponseWriter, r *http.Request, data []byte, mime string) {
	if data == nil {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}

// Get handles GET /api/media/{ref}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, mime, err := images.Get(r.Context(), h.DB, r.PathValue("ref"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	h.serve(w, r, data, mime)
}

// GetThumbnail handles GET /api/media/{ref}/thumb.
func (h *MediaHandler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	data, mime, err := images.GetThumbnail(r.Context(), h.DB, r.PathValue("ref"))
	if err != nil {
		slog.Error("failed to get thumbnail", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get thumbnail")
		return
	}
	h.serve(w, r, data, mime)
}
