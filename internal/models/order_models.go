package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen/service lifecycle label of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted order status. Any status may be set from
// any other; only membership is enforced.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusCancelled,
}

// IsValidOrderStatus checks if the provided status string is a valid OrderStatus.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

// ReleasesTable reports whether moving an order into this status frees its table.
func (s OrderStatus) ReleasesTable() bool {
	return s == OrderStatusServed || s == OrderStatusCancelled
}

// IsDeletable reports whether an order in this status may be removed.
func (s OrderStatus) IsDeletable() bool {
	return s == OrderStatusPending || s == OrderStatusCancelled
}

// PaymentStatus is the settlement label of an order. It is not tied to any gateway.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPaid,
	PaymentStatusRefunded,
}

// IsValidPaymentStatus checks if the provided status string is a valid PaymentStatus.
func IsValidPaymentStatus(status string) bool {
	for _, s := range PaymentStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

const (
	MaxOrderNotesLength = 500
	MaxItemNotesLength  = 200
	// Quantities and customer counts are stored in INTEGER columns.
	MaxLineQuantity  = 10000
	MaxCustomerCount = 1000
)

// ItemSnapshot holds the item fields frozen onto an order line at creation time.
// It is never refreshed from the live Item.
type ItemSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// StaffSnapshot holds the staff fields frozen onto an order at creation time.
type StaffSnapshot struct {
	Name  string          `json:"name"`
	Role  string          `json:"role"`
	Bonus decimal.Decimal `json:"bonus"`
}

// OrderItem is one item line of an order.
type OrderItem struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`
	ItemID  int64 `json:"item_id"`
	ItemSnapshot
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Notes    string          `json:"notes"`
}

// OrderStaff is one staff assignment of an order.
type OrderStaff struct {
	ID      int64 `json:"id"`
	OrderID int64 `json:"order_id"`
	StaffID int64 `json:"staff_id"`
	StaffSnapshot
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// TableSummary is the table as shown alongside an order.
type TableSummary struct {
	ID          int64  `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
}

// Order represents a table visit with its item lines, staff assignments and totals.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TableID       int64           `json:"table_id"`
	TableNumber   int             `json:"table_number"`
	Items         []OrderItem     `json:"items"`
	Staff         []OrderStaff    `json:"staff"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Total         decimal.Decimal `json:"total"`
	TotalItems    int             `json:"total_items"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	OrderDate     time.Time       `json:"order_date"`
	CustomerCount int             `json:"customer_count"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Table         *TableSummary   `json:"table,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status        *string
	PaymentStatus *string
	TableID       *int64
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
	SortBy        string // column key, see repositories.orderSortColumns
	SortDesc      bool
}

// Pagination describes one page of a listing.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
}

// NewPagination computes the page count for total records split by limit.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Current: page, Pages: pages, Total: total, Limit: limit}
}

// Order number strategies.
const (
	NumberStrategyCounter = "counter" // atomic per-day counter row
	NumberStrategyCount   = "count"   // count existing numbers with the day prefix
)

// Table occupancy modes.
const (
	OccupancyModeSingle   = "single"   // one boolean, cleared by any terminal order
	OccupancyModeRefCount = "refcount" // cleared only when no other open order uses the table
)
