package model

import "time"

// Inventory is a named, emoji-tagged collection of items owned by one user.
// The (user, name) pair is unique.
type Inventory struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultEmoji is used when no emoji is picked.
const DefaultEmoji = "📦"

// Emojis is the fixed set of inventory tags offered by the UI.
var Emojis = []string{
	"📦", "🏠", "🎁", "📚", "🍕", "🛒", "💼", "🎮",
	"📱", "👕", "🎨", "🔧", "🌱", "⚽", "🎵", "📸",
}

// ValidEmoji reports whether emoji is part of the fixed tag set.
func ValidEmoji(emoji string) bool {
	for _, e := range Emojis {
		if e == emoji {
			return true
		}
	}
	return false
}
