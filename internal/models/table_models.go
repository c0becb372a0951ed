package models

import "time"

// Table represents a physical table in the restaurant. Occupied is only ever
// changed as a side effect of order lifecycle events.
type Table struct {
	ID          int64     `json:"id" db:"id"`
	TableNumber int       `json:"table_number" db:"table_number"`
	Capacity    int       `json:"capacity" db:"capacity"`
	Occupied    bool      `json:"occupied" db:"occupied"`
	Status      string    `json:"status" db:"status"`
	PositionX   float64   `json:"position_x" db:"position_x"`
	PositionY   float64   `json:"position_y" db:"position_y"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Summary returns the subset of table fields shown alongside an order.
func (t *Table) Summary() *TableSummary {
	return &TableSummary{
		ID:          t.ID,
		TableNumber: t.TableNumber,
		Capacity:    t.Capacity,
		Status:      t.Status,
	}
}

// TableFilters defines the available filters for listing tables.
type TableFilters struct {
	Status   *string `form:"status"`
	Occupied *bool   `form:"occupied"`
}
