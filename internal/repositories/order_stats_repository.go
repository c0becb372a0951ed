package repositories

import (
	"context"
	"fmt"
	"time"

	"els_pos_backend/internal/models"
)

const popularItemsLimit = 10

// GetOrderStats aggregates the whole orders collection. Nothing is cached and
// the three queries are not isolated from concurrent writes.
func (r *orderRepository) GetOrderStats(ctx context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error) {
	stats := &models.OrderStats{PopularItems: []models.PopularItem{}}

	overviewQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(AVG(total), 0),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'preparing'),
		       COUNT(*) FILTER (WHERE status = 'ready'),
		       COUNT(*) FILTER (WHERE status = 'served'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COUNT(*) FILTER (WHERE payment_status = 'paid'),
		       COUNT(*) FILTER (WHERE payment_status = 'unpaid'),
		       COUNT(*) FILTER (WHERE payment_status = 'refunded')
		FROM orders`
	ov := &stats.Overview
	err := r.db.QueryRowContext(ctx, overviewQuery).Scan(
		&ov.TotalOrders, &ov.TotalRevenue, &ov.AverageOrderValue,
		&ov.PendingOrders, &ov.ConfirmedOrders, &ov.PreparingOrders, &ov.ReadyOrders,
		&ov.ServedOrders, &ov.CancelledOrders,
		&ov.PaidOrders, &ov.UnpaidOrders, &ov.RefundedOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating order overview: %v", ErrDatabaseError, err)
	}
	ov.AverageOrderValue = ov.AverageOrderValue.Round(2)

	todayQuery := `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM orders
		WHERE order_date >= $1 AND order_date < $2`
	td := &stats.Today
	err = r.db.QueryRowContext(ctx, todayQuery, dayStart, dayEnd).Scan(
		&td.TodayOrders, &td.TodayRevenue, &td.TodayAverageOrderValue,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating today's orders: %v", ErrDatabaseError, err)
	}
	td.TodayAverageOrderValue = td.TodayAverageOrderValue.Round(2)

	popularQuery := `
		SELECT name, SUM(quantity), COALESCE(SUM(subtotal), 0), COUNT(*)
		FROM order_items
		GROUP BY name
		ORDER BY SUM(quantity) DESC, name
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, popularQuery, popularItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying popular items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PopularItem
		if err := rows.Scan(&p.Name, &p.TotalQuantity, &p.TotalRevenue, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("%w: scanning popular item: %v", ErrDatabaseError, err)
		}
		stats.PopularItems = append(stats.PopularItems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating popular item rows: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
