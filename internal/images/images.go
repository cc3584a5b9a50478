// Package images is the storage boundary for item photos. Processed
// image data and a pre-rendered thumbnail are stored as blobs keyed by an
// opaque reference; callers only ever see references and URLs.
package images

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/xid"

	"github.com/erazemk/shramba/internal/imaging"
)

// ThumbnailWidth is the width of stored thumbnails.
const ThumbnailWidth = 256

// Blob is a processed image ready to be stored.
type Blob struct {
	Ref   string
	MIME  string
	Data  []byte
	Thumb []byte
}

// execer covers *sql.DB and *sql.Tx so blobs can be written inside the
// caller's transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Prepare reads an uploaded image, validates and downscales it, renders a
// thumbnail, and assigns a fresh reference. Nothing is stored yet.
func Prepare(r io.Reader) (*Blob, error) {
	res, err := imaging.Process(r)
	if err != nil {
		return nil, err
	}

	thumb, err := imaging.Thumbnail(res.Data, ThumbnailWidth)
	if err != nil {
		return nil, fmt.Errorf("rendering thumbnail: %w", err)
	}

	return &Blob{
		Ref:   xid.New().String(),
		MIME:  res.MIME,
		Data:  res.Data,
		Thumb: thumb,
	}, nil
}

// Insert stores a prepared blob.
func Insert(ctx context.Context, q execer, b *Blob) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO images (ref, data, thumb, mime) VALUES (?, ?, ?, ?)`,
		b.Ref, b.Data, b.Thumb, b.MIME,
	)
	if err != nil {
		return fmt.Errorf("storing image: %w", err)
	}
	return nil
}

// Delete removes a stored blob. Deleting a missing reference is a no-op.
func Delete(ctx context.Context, q execer, ref string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM images WHERE ref = ?`, ref)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

// Get returns the full-size image data and MIME type for a reference.
func Get(ctx context.Context, db *sql.DB, ref string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM images WHERE ref = ?`, ref,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}

// GetThumbnail returns the thumbnail data and MIME type for a reference.
func GetThumbnail(ctx context.Context, db *sql.DB, ref string) ([]byte, string, error) {
	var thumb []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT thumb, mime FROM images WHERE ref = ?`, ref,
	).Scan(&thumb, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting thumbnail: %w", err)
	}
	return thumb, mime, nil
}

// URL returns the serving URL for a stored image.
func URL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/api/media/" + ref
}

// ThumbnailURL returns the serving URL for a stored image's thumbnail.
func ThumbnailURL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/api/media/" + ref + "/thumb"
}
