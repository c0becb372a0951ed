package models

import "github.com/shopspring/decimal"

// OrderOverviewStats aggregates every order ever stored.
type OrderOverviewStats struct {
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PendingOrders     int             `json:"pending_orders"`
	ConfirmedOrders   int             `json:"confirmed_orders"`
	PreparingOrders   int             `json:"preparing_orders"`
	ReadyOrders       int             `json:"ready_orders"`
	ServedOrders      int             `json:"served_orders"`
	CancelledOrders   int             `json:"cancelled_orders"`
	PaidOrders        int             `json:"paid_orders"`
	UnpaidOrders      int             `json:"unpaid_orders"`
	RefundedOrders    int             `json:"refunded_orders"`
}

// TodayOrderStats aggregates orders whose order date falls on the current business day.
type TodayOrderStats struct {
	TodayOrders            int             `json:"today_orders"`
	TodayRevenue           decimal.Decimal `json:"today_revenue"`
	TodayAverageOrderValue decimal.Decimal `json:"today_average_order_value"`
}

// PopularItem is one entry of the best-selling items ranking, keyed by snapshot name.
type PopularItem struct {
	Name          string          `json:"name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	OrderCount    int             `json:"order_count"`
}

// OrderStats is the read-only reporting view over all orders.
type OrderStats struct {
	Overview     OrderOverviewStats `json:"overview"`
	Today        TodayOrderStats    `json:"today"`
	PopularItems []PopularItem      `json:"popular_items"`
}
