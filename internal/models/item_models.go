package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a sellable menu entry.
type Item struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	CategoryID  *int64          `json:"category_id,omitempty" db:"category_id"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsAvailable reports whether the item can be put on new order lines.
func (i *Item) IsAvailable() bool {
	return i.Status == EntityStatusActive
}

// Snapshot freezes the fields an order line keeps about this item.
func (i *Item) Snapshot() ItemSnapshot {
	return ItemSnapshot{Name: i.Name, Price: i.Price}
}

// CatalogFilters narrows item and staff listings.
type CatalogFilters struct {
	Status     *string
	CategoryID *int64  // items only
	Role       *string // staff only
	Page       int
	Limit      int
}
