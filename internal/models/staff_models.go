package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityStatus is the active/inactive flag shared by tables, items and staff.
const (
	EntityStatusActive   = "active"
	EntityStatusInactive = "inactive"
)

// Staff represents an employee that can be assigned to orders.
type Staff struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Email     *string         `json:"email,omitempty" db:"email"`
	Phone     *string         `json:"phone,omitempty" db:"phone"`
	Role      string          `json:"role" db:"role"`
	Status    string          `json:"status" db:"status"`
	Bonus     decimal.Decimal `json:"bonus" db:"bonus"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the staff member can be assigned to new orders.
func (s *Staff) IsActive() bool {
	return s.Status == EntityStatusActive
}

// Snapshot freezes the fields an order keeps about this staff member.
func (s *Staff) Snapshot() StaffSnapshot {
	return StaffSnapshot{Name: s.Name, Role: s.Role, Bonus: s.Bonus}
}
