package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"els_pos_backend/internal/models"

	"github.com/lib/pq" // For pq.Array
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) // Header plus table summary
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, int, error)
	GetOrdersByTable(ctx context.Context, tableID int64, status *string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, status models.OrderStatus, updatedAt time.Time) (int64, error) // Returns the order's table ID
	UpdatePaymentStatus(ctx context.Context, executor SQLExecutor, orderID int64, status models.PaymentStatus, updatedAt time.Time) error
	DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
	CountOpenOrdersForTable(ctx context.Context, executor SQLExecutor, tableID, excludeOrderID int64) (int, error)
	CountOrdersWithNumberPrefix(ctx context.Context, executor SQLExecutor, prefix string) (int, error)
	GetOrderStats(ctx context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error)

	// Line methods
	CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error)
	CreateOrderStaff(ctx context.Context, executor SQLExecutor, staff *models.OrderStaff) (int64, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrderStaffByOrderID(ctx context.Context, orderID int64) ([]models.OrderStaff, error)
	DeleteOrderItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// orderSortColumns maps accepted sort keys to columns. Both the JSON field
// name and its camelCase form are accepted.
var orderSortColumns = map[string]string{
	"created_at":     "o.created_at",
	"createdAt":      "o.created_at",
	"updated_at":     "o.updated_at",
	"updatedAt":      "o.updated_at",
	"order_date":     "o.order_date",
	"orderDate":      "o.order_date",
	"order_number":   "o.order_number",
	"orderNumber":    "o.order_number",
	"table_number":   "o.table_number",
	"tableNumber":    "o.table_number",
	"status":         "o.status",
	"payment_status": "o.payment_status",
	"paymentStatus":  "o.payment_status",
	"subtotal":       "o.subtotal",
	"tax":            "o.tax",
	"tax_rate":       "o.tax_rate",
	"taxRate":        "o.tax_rate",
	"total":          "o.total",
	"customer_count": "o.customer_count",
	"customerCount":  "o.customer_count",
}

// IsSortableOrderField reports whether key can be used as an order sort key.
func IsSortableOrderField(key string) bool {
	_, ok := orderSortColumns[key]
	return ok
}

const orderSelectColumns = `
	o.id, o.order_number, o.table_id, o.table_number, o.subtotal, o.tax, o.tax_rate, o.total,
	o.status, o.payment_status, o.order_date, o.customer_count, o.notes, o.created_at, o.updated_at,
	t.id, t.table_number, t.capacity, t.status`

const orderFromClause = `
	FROM orders o
	LEFT JOIN restaurant_tables t ON o.table_id = t.id`

func scanOrderRow(row scanner) (*models.Order, error) {
	var o models.Order
	var tableID sql.NullInt64
	var tableNumber, tableCapacity sql.NullInt32
	var tableStatus sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.TableID, &o.TableNumber, &o.Subtotal, &o.Tax, &o.TaxRate, &o.Total,
		&o.Status, &o.PaymentStatus, &o.OrderDate, &o.CustomerCount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		&tableID, &tableNumber, &tableCapacity, &tableStatus,
	)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		o.Table = &models.TableSummary{
			ID:          tableID.Int64,
			TableNumber: int(tableNumber.Int32),
			Capacity:    int(tableCapacity.Int32),
			Status:      tableStatus.String,
		}
	}
	return &o, nil
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_number, table_id, table_number, subtotal, tax, tax_rate, total,
	             status, payment_status, order_date, customer_count, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	now := time.Now()
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	err := executor.QueryRowContext(ctx, query,
		order.OrderNumber, order.TableID, order.TableNumber, order.Subtotal, order.Tax, order.TaxRate, order.Total,
		order.Status, order.PaymentStatus, order.OrderDate, order.CustomerCount, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating order "+order.OrderNumber)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderSelectColumns + orderFromClause + ` WHERE o.id = $1`
	order, err := scanOrderRow(r.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

// buildOrderConditions turns filters into a WHERE clause and its arguments.
func buildOrderConditions(filters models.OrderFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("o.payment_status = $%d", argCounter))
		args = append(args, *filters.PaymentStatus)
		argCounter++
	}
	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date >= $%d", argCounter))
		args = append(args, *filters.StartDate)
		argCounter++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date <= $%d", argCounter))
		args = append(args, *filters.EndDate)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *orderRepository) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, int, error) {
	where, args := buildOrderConditions(filters)

	totalCount := 0
	countQuery := `SELECT COUNT(*) FROM orders o` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("%w: counting orders: %v", ErrDatabaseError, err)
	}

	sortColumn, ok := orderSortColumns[filters.SortBy]
	if !ok {
		sortColumn = "o.created_at"
	}
	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderSelectColumns + orderFromClause)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, o.id %s", sortColumn, direction, direction))

	argCounter := len(args) + 1
	if filters.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.Limit)
		argCounter++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, (filters.Page-1)*filters.Limit)
		}
	}

	orders, err := r.queryOrders(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrdersByTable(ctx context.Context, tableID int64, status *string) ([]models.Order, error) {
	filters := models.OrderFilters{TableID: &tableID, Status: status}
	where, args := buildOrderConditions(filters)
	query := `SELECT ` + orderSelectColumns + orderFromClause + where + ` ORDER BY o.created_at DESC, o.id DESC`
	return r.queryOrders(ctx, query, args...)
}

// queryOrders runs an order SELECT and attaches item and staff lines to every row.
func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines of all orders with one query per line table.
func (r *orderRepository) attachLines(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []models.OrderItem{}
		orders[i].Staff = []models.OrderStaff{}
	}

	items, err := r.queryOrderItems(ctx, `WHERE order_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	for _, it := range items {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}

	staff, err := r.queryOrderStaff(ctx, `WHERE order_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	for _, st := range staff {
		i := index[st.OrderID]
		orders[i].Staff = append(orders[i].Staff, st)
	}

	for i := range orders {
		orders[i].TotalItems = orders[i].CountItems()
	}
	return nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET subtotal = $1, tax = $2, tax_rate = $3, total = $4,
	              customer_count = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.ExecContext(ctx, query,
		order.Subtotal, order.Tax, order.TaxRate, order.Total,
		order.CustomerCount, order.Notes, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return wrapWriteError(err, fmt.Sprintf("updating order ID %d", order.ID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order update ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID int64, status models.OrderStatus, updatedAt time.Time) (int64, error) {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 RETURNING table_id`
	var tableID int64
	err := executor.QueryRowContext(ctx, query, status, updatedAt, orderID).Scan(&tableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return tableID, nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, executor SQLExecutor, orderID int64, status models.PaymentStatus, updatedAt time.Time) error {
	query := `UPDATE orders SET payment_status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, status, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating payment status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM orders WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

func (r *orderRepository) CountOpenOrdersForTable(ctx context.Context, executor SQLExecutor, tableID, excludeOrderID int64) (int, error) {
	query := `SELECT COUNT(*) FROM orders
	          WHERE table_id = $1 AND id <> $2 AND status NOT IN ($3, $4)`
	var count int
	err := executor.QueryRowContext(ctx, query, tableID, excludeOrderID,
		models.OrderStatusServed, models.OrderStatusCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting open orders for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return count, nil
}

func (r *orderRepository) CountOrdersWithNumberPrefix(ctx context.Context, executor SQLExecutor, prefix string) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE order_number LIKE $1`
	var count int
	if err := executor.QueryRowContext(ctx, query, prefix+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders with prefix %s: %v", ErrDatabaseError, prefix, err)
	}
	return count, nil
}

// --- Line Methods ---

func (r *orderRepository) CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, item_id, name, price, quantity, subtotal, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		item.OrderID, item.ItemID, item.Name, item.Price, item.Quantity, item.Subtotal, item.Notes,
	).Scan(&item.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating order item (item_id: %d)", item.ItemID))
	}
	return item.ID, nil
}

func (r *orderRepository) CreateOrderStaff(ctx context.Context, executor SQLExecutor, staff *models.OrderStaff) (int64, error) {
	query := `INSERT INTO order_staff (order_id, staff_id, name, role, bonus, quantity, subtotal)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		staff.OrderID, staff.StaffID, staff.Name, staff.Role, staff.Bonus, staff.Quantity, staff.Subtotal,
	).Scan(&staff.ID)
	if err != nil {
		return 0, wrapWriteError(err, fmt.Sprintf("creating order staff (staff_id: %d)", staff.StaffID))
	}
	return staff.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return r.queryOrderItems(ctx, `WHERE order_id = $1`, orderID)
}

func (r *orderRepository) GetOrderStaffByOrderID(ctx context.Context, orderID int64) ([]models.OrderStaff, error) {
	return r.queryOrderStaff(ctx, `WHERE order_id = $1`, orderID)
}

func (r *orderRepository) queryOrderItems(ctx context.Context, where string, args ...interface{}) ([]models.OrderItem, error) {
	query := `SELECT id, order_id, item_id, name, price, quantity, subtotal, notes
	          FROM order_items ` + where + ` ORDER BY order_id, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ItemID, &item.Name, &item.Price,
			&item.Quantity, &item.Subtotal, &item.Notes,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *orderRepository) queryOrderStaff(ctx context.Context, where string, args ...interface{}) ([]models.OrderStaff, error) {
	query := `SELECT id, order_id, staff_id, name, role, bonus, quantity, subtotal
	          FROM order_staff ` + where + ` ORDER BY order_id, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	staff := []models.OrderStaff{}
	for rows.Next() {
		var st models.OrderStaff
		if err := rows.Scan(
			&st.ID, &st.OrderID, &st.StaffID, &st.Name, &st.Role, &st.Bonus,
			&st.Quantity, &st.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order staff: %v", ErrDatabaseError, err)
		}
		staff = append(staff, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order staff rows: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(ctx context.Context, executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM order_items WHERE order_id = $1`
	result, err := executor.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}
