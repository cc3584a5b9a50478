package model

import "time"

// Category is a user-defined label optionally attached to items.
// Names are unique per user, case-insensitively.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
