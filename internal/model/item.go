package model

import "time"

// Item is a tracked object inside an inventory. Brand, description,
// expiration date, category and image are all optional.
type Item struct {
	ID             int64      `json:"id"`
	InventoryID    int64      `json:"-"`
	Name           string     `json:"name"`
	Brand          string     `json:"brand,omitempty"`
	Description    string     `json:"description,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Quantity       int        `json:"quantity"`
	CategoryID     *int64     `json:"-"`
	CategoryName   string     `json:"category,omitempty"`
	ImageRef       string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LowStockThreshold marks items that are about to run out.
const LowStockThreshold = 3

// ExpiringSoonDays is the window for the "expiring soon" badge.
const ExpiringSoonDays = 7

// LowStock reports whether the item is at or below the low-stock threshold.
func (i *Item) LowStock() bool {
	return i.Quantity <= LowStockThreshold
}

// ExpiringSoon reports whether the item expires within ExpiringSoonDays of
// now, counted in calendar days. Items without an expiration date or
// already past it never match.
func (i *Item) ExpiringSoon(now time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	exp := dateOnly(*i.ExpirationDate)
	days := int(exp.Sub(dateOnly(now)) / (24 * time.Hour))
	return days >= 0 && days <= ExpiringSoonDays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Item sort orders for listing. An empty sort means most recently
// updated first.
const (
	SortExpiryAsc    = "expiry_asc"
	SortExpiryDesc   = "expiry_desc"
	SortQuantityAsc  = "quantity_asc"
	SortQuantityDesc = "quantity_desc"
)

// Bulk actions applicable to a set of items.
const (
	BulkDelete   = "delete"
	BulkIncrease = "increase"
	BulkDecrease = "decrease"
)
