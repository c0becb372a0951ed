package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
)

// fakeStore is an in-memory stand-in for every repository the order core uses.
type fakeStore struct {
	tables     map[int64]*models.Table
	items      map[int64]*models.Item
	staff      map[int64]*models.Staff
	orders     map[int64]*models.Order
	orderItems map[int64][]models.OrderItem
	orderStaff map[int64][]models.OrderStaff
	counters   map[string]int
	nextID     int64

	// staleCount is subtracted from prefix counts to mimic a concurrent reader.
	staleCount int

	statsDayStart, statsDayEnd time.Time
	lastFilters                models.OrderFilters
	lastCatalog                models.CatalogFilters
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:     map[int64]*models.Table{},
		items:      map[int64]*models.Item{},
		staff:      map[int64]*models.Staff{},
		orders:     map[int64]*models.Order{},
		orderItems: map[int64][]models.OrderItem{},
		orderStaff: map[int64][]models.OrderStaff{},
		counters:   map[string]int{},
		nextID:     1000,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.calls++
	return fn(nil)
}

// --- TableRepository ---

func (f *fakeStore) GetTableByID(ctx context.Context, id int64) (*models.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	out := []models.Table{}
	for _, t := range f.tables {
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if filters.Occupied != nil && t.Occupied != *filters.Occupied {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

func (f *fakeStore) SetOccupied(ctx context.Context, exec repositories.SQLExecutor, id int64, occupied bool) (bool, error) {
	t, ok := f.tables[id]
	if !ok || t.Occupied == occupied {
		return false, nil
	}
	t.Occupied = occupied
	return true, nil
}

// --- ItemRepository / StaffRepository ---

func (f *fakeStore) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeStore) GetStaffByID(ctx context.Context, id int64) (*models.Staff, error) {
	st, ok := f.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) GetItems(ctx context.Context, filters models.CatalogFilters) ([]models.Item, int, error) {
	f.lastCatalog = filters
	out := []models.Item{}
	for _, it := range f.items {
		if filters.Status != nil && it.Status != *filters.Status {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeStore) GetStaff(ctx context.Context, filters models.CatalogFilters) ([]models.Staff, int, error) {
	f.lastCatalog = filters
	out := []models.Staff{}
	for _, st := range f.staff {
		if filters.Role != nil && st.Role != *filters.Role {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

// --- OrderNumberRepository ---

func (f *fakeStore) NextSequence(ctx context.Context, exec repositories.SQLExecutor, day, numberPrefix string) (int, error) {
	next := f.counters[day] + 1
	for _, o := range f.orders {
		if !strings.HasPrefix(o.OrderNumber, numberPrefix) {
			continue
		}
		if seq, err := strconv.Atoi(strings.TrimPrefix(o.OrderNumber, numberPrefix)); err == nil && seq >= next {
			next = seq + 1
		}
	}
	f.counters[day] = next
	return next, nil
}

// --- OrderRepository ---

func (f *fakeStore) CreateOrder(ctx context.Context, exec repositories.SQLExecutor, order *models.Order) (int64, error) {
	for _, o := range f.orders {
		if o.OrderNumber == order.OrderNumber {
			return 0, fmt.Errorf("%w: creating order %s (constraint: orders_order_number_key)", repositories.ErrDuplicateKey, order.OrderNumber)
		}
	}
	order.ID = f.id()
	header := *order
	header.Items, header.Staff, header.Table = nil, nil, nil
	f.orders[order.ID] = &header
	return order.ID, nil
}

func (f *fakeStore) header(id int64) *models.Order {
	o := *f.orders[id]
	if t, ok := f.tables[o.TableID]; ok {
		o.Table = t.Summary()
	}
	return &o
}

func (f *fakeStore) withLines(o *models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, f.orderItems[o.ID]...)
	o.Staff = append([]models.OrderStaff{}, f.orderStaff[o.ID]...)
	o.TotalItems = o.CountItems()
	return *o
}

func (f *fakeStore) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	if _, ok := f.orders[orderID]; !ok {
		return nil, repositories.ErrNotFound
	}
	return f.header(orderID), nil
}

func (f *fakeStore) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, int, error) {
	f.lastFilters = filters
	var ids []int64
	for id, o := range f.orders {
		if filters.Status != nil && string(o.Status) != *filters.Status {
			continue
		}
		if filters.PaymentStatus != nil && string(o.PaymentStatus) != *filters.PaymentStatus {
			continue
		}
		if filters.TableID != nil && o.TableID != *filters.TableID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := []models.Order{}
	start := (filters.Page - 1) * filters.Limit
	for i := start; i < len(ids) && i < start+filters.Limit; i++ {
		out = append(out, f.withLines(f.header(ids[i])))
	}
	return out, len(ids), nil
}

func (f *fakeStore) GetOrdersByTable(ctx context.Context, tableID int64, status *string) ([]models.Order, error) {
	out, _, err := f.GetOrders(ctx, models.OrderFilters{TableID: &tableID, Status: status, Page: 1, Limit: len(f.orders) + 1})
	return out, err
}

func (f *fakeStore) UpdateOrder(ctx context.Context, exec repositories.SQLExecutor, order *models.Order) error {
	o, ok := f.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Subtotal, o.Tax, o.TaxRate, o.Total = order.Subtotal, order.Tax, order.TaxRate, order.Total
	o.CustomerCount, o.Notes, o.UpdatedAt = order.CustomerCount, order.Notes, order.UpdatedAt
	return nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, exec repositories.SQLExecutor, orderID int64, status models.OrderStatus, updatedAt time.Time) (int64, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	o.Status, o.UpdatedAt = status, updatedAt
	return o.TableID, nil
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, exec repositories.SQLExecutor, orderID int64, status models.PaymentStatus, updatedAt time.Time) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.PaymentStatus, o.UpdatedAt = status, updatedAt
	return nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, exec repositories.SQLExecutor, orderID int64) (int64, error) {
	if _, ok := f.orders[orderID]; !ok {
		return 0, repositories.ErrNotFound
	}
	delete(f.orders, orderID)
	delete(f.orderItems, orderID)
	delete(f.orderStaff, orderID)
	return 1, nil
}

func (f *fakeStore) CountOpenOrdersForTable(ctx context.Context, exec repositories.SQLExecutor, tableID, excludeOrderID int64) (int, error) {
	n := 0
	for id, o := range f.orders {
		if id != excludeOrderID && o.TableID == tableID && !o.Status.ReleasesTable() {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountOrdersWithNumberPrefix(ctx context.Context, exec repositories.SQLExecutor, prefix string) (int, error) {
	n := 0
	for _, o := range f.orders {
		if strings.HasPrefix(o.OrderNumber, prefix) {
			n++
		}
	}
	return n - f.staleCount, nil
}

func (f *fakeStore) GetOrderStats(ctx context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error) {
	f.statsDayStart, f.statsDayEnd = dayStart, dayEnd
	stats := &models.OrderStats{PopularItems: []models.PopularItem{}}
	stats.Overview.TotalOrders = len(f.orders)
	return stats, nil
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, exec repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	item.ID = f.id()
	f.orderItems[item.OrderID] = append(f.orderItems[item.OrderID], *item)
	return item.ID, nil
}

func (f *fakeStore) CreateOrderStaff(ctx context.Context, exec repositories.SQLExecutor, staff *models.OrderStaff) (int64, error) {
	staff.ID = f.id()
	f.orderStaff[staff.OrderID] = append(f.orderStaff[staff.OrderID], *staff)
	return staff.ID, nil
}

func (f *fakeStore) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return append([]models.OrderItem{}, f.orderItems[orderID]...), nil
}

func (f *fakeStore) GetOrderStaffByOrderID(ctx context.Context, orderID int64) ([]models.OrderStaff, error) {
	return append([]models.OrderStaff{}, f.orderStaff[orderID]...), nil
}

func (f *fakeStore) DeleteOrderItemsByOrderID(ctx context.Context, exec repositories.SQLExecutor, orderID int64) (int64, error) {
	n := int64(len(f.orderItems[orderID]))
	delete(f.orderItems, orderID)
	return n, nil
}

// --- AuthRepository ---

type fakeAuthRepo struct {
	users     map[string]*models.User
	lastLogin map[int64]time.Time
	nextID    int64
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*models.User{}, lastLogin: map[int64]time.Time{}}
}

func (r *fakeAuthRepo) CreateUser(ctx context.Context, exec repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	if _, ok := r.users[user.Username]; ok {
		return 0, fmt.Errorf("%w: creating user %s (constraint: users_username_key)", repositories.ErrDuplicateKey, user.Username)
	}
	r.nextID++
	user.ID = r.nextID
	if user.Status == "" {
		user.Status = models.EntityStatusActive
	}
	stored := *user
	stored.PasswordHash = hashedPassword
	r.users[user.Username] = &stored
	return user.ID, nil
}

func (r *fakeAuthRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeAuthRepo) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			cp := *u
			cp.PasswordHash = ""
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAuthRepo) UpdateLastLogin(ctx context.Context, exec repositories.SQLExecutor, userID int64, at time.Time) error {
	r.lastLogin[userID] = at
	return nil
}
