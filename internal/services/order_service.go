package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageLimit = 50
	DefaultOrderSort = "created_at"
	defaultCustomers = 1
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	TableID       int64              `json:"table_id" binding:"required"`
	Items         []ItemLineRequest  `json:"items"`
	Staff         []StaffLineRequest `json:"staff"`
	Notes         string             `json:"notes"`
	CustomerCount *int               `json:"customer_count"`
	TaxRate       *decimal.Decimal   `json:"tax_rate"`
	PaymentStatus *string            `json:"payment_status"`
}

// UpdateOrderRequest carries the fields an existing order may change.
// Table, staff and order number are fixed at creation.
type UpdateOrderRequest struct {
	Items         []ItemLineRequest `json:"items"`
	Notes         *string           `json:"notes"`
	CustomerCount *int              `json:"customer_count"`
	TaxRate       *decimal.Decimal  `json:"tax_rate"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest is used for updating the payment status of an order.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// OrderServiceConfig holds order defaults that come from configuration.
type OrderServiceConfig struct {
	DefaultTaxRate decimal.Decimal
	Location       *time.Location // business timezone for "today"
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, models.Pagination, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrdersByTable(ctx context.Context, tableID int64, status *string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, req UpdateOrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, req UpdatePaymentStatusRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrderStats(ctx context.Context) (*models.OrderStats, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo  repositories.OrderRepository
	validator  *ReferenceValidator
	numbers    *OrderNumberGenerator
	occupancy  *TableOccupancySync
	transactor repositories.Transactor
	cfg        OrderServiceConfig
	now        func() time.Time
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	validator *ReferenceValidator,
	numbers *OrderNumberGenerator,
	occupancy *TableOccupancySync,
	transactor repositories.Transactor,
	cfg OrderServiceConfig,
) OrderService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &orderService{
		orderRepo:  or,
		validator:  validator,
		numbers:    numbers,
		occupancy:  occupancy,
		transactor: transactor,
		cfg:        cfg,
		now:        time.Now,
	}
}

// --- Method Implementations ---

// CreateOrder resolves references, computes totals, assigns a number and
// persists the order with its lines in one transaction. New orders are always
// served; payment defaults to paid.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	paymentStatus := models.PaymentStatusPaid
	if req.PaymentStatus != nil {
		if !models.IsValidPaymentStatus(*req.PaymentStatus) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *req.PaymentStatus)
		}
		paymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}

	refs, err := s.validator.Resolve(ctx, req.TableID, req.Staff, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TableID:       refs.Table.ID,
		TableNumber:   refs.Table.TableNumber,
		Items:         refs.Items,
		Staff:         refs.Staff,
		TaxRate:       s.cfg.DefaultTaxRate,
		Status:        models.OrderStatusServed,
		PaymentStatus: paymentStatus,
		CustomerCount: defaultCustomers,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.TaxRate != nil {
		order.TaxRate = *req.TaxRate
	}
	if req.CustomerCount != nil {
		order.CustomerCount = *req.CustomerCount
	}

	order.RecalculateTotals()
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		number, issuedAt, err := s.numbers.Next(ctx, exec)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		order.OrderDate = issuedAt
		order.CreatedAt = issuedAt
		order.UpdatedAt = issuedAt

		if _, err := s.orderRepo.CreateOrder(ctx, exec, order); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return fmt.Errorf("%w: %s", ErrOrderNumberConflict, number)
			}
			return fmt.Errorf("failed to create order record: %w", err)
		}
		if err := s.createLines(ctx, exec, order); err != nil {
			return err
		}
		return s.occupancy.Occupy(ctx, exec, order.TableID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("table_id", order.TableID).
		Str("total", order.Total.String()).
		Msg("Order created")

	return s.GetOrderByID(ctx, order.ID)
}

func (s *orderService) createLines(ctx context.Context, exec repositories.SQLExecutor, order *models.Order) error {
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if _, err := s.orderRepo.CreateOrderItem(ctx, exec, &order.Items[i]); err != nil {
			return fmt.Errorf("failed to create order item (item_id: %d): %w", order.Items[i].ItemID, err)
		}
	}
	for i := range order.Staff {
		order.Staff[i].OrderID = order.ID
		if _, err := s.orderRepo.CreateOrderStaff(ctx, exec, &order.Staff[i]); err != nil {
			return fmt.Errorf("failed to create order staff (staff_id: %d): %w", order.Staff[i].StaffID, err)
		}
	}
	return nil
}

func (s *orderService) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, models.Pagination, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultPageLimit
	}
	if filters.SortBy == "" {
		filters.SortBy = DefaultOrderSort
	} else if !repositories.IsSortableOrderField(filters.SortBy) {
		return nil, models.Pagination{}, fmt.Errorf("%w: cannot sort by %q", ErrValidation, filters.SortBy)
	}
	if filters.Status != nil && !models.IsValidOrderStatus(*filters.Status) {
		return nil, models.Pagination{}, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, *filters.Status)
	}
	if filters.PaymentStatus != nil && !models.IsValidPaymentStatus(*filters.PaymentStatus) {
		return nil, models.Pagination{}, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *filters.PaymentStatus)
	}

	orders, totalCount, err := s.orderRepo.GetOrders(ctx, filters)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, models.NewPagination(filters.Page, filters.Limit, totalCount), nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}

	order.Items, err = s.orderRepo.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of order %d: %w", orderID, err)
	}
	order.Staff, err = s.orderRepo.GetOrderStaffByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff of order %d: %w", orderID, err)
	}
	order.TotalItems = order.CountItems()
	return order, nil
}

func (s *orderService) GetOrdersByTable(ctx context.Context, tableID int64, status *string) ([]models.Order, error) {
	if status != nil && !models.IsValidOrderStatus(*status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, *status)
	}
	orders, err := s.orderRepo.GetOrdersByTable(ctx, tableID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of table %d: %w", tableID, err)
	}
	return orders, nil
}

// UpdateOrder replaces the item list and free-form fields. Items in a new list
// must exist but may be inactive; they are snapshotted at their current name
// and price. Existing lines keep their snapshots when no list is sent.
func (s *orderService) UpdateOrder(ctx context.Context, orderID int64, req UpdateOrderRequest) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	replaceItems := req.Items != nil
	if replaceItems {
		order.Items, err = s.validator.ResolveReplacementItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		order.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.CustomerCount != nil {
		order.CustomerCount = *req.CustomerCount
	}
	if req.TaxRate != nil {
		order.TaxRate = *req.TaxRate
	}
	order.UpdatedAt = s.now()

	order.RecalculateTotals()
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if replaceItems {
			if _, err := s.orderRepo.DeleteOrderItemsByOrderID(ctx, exec, orderID); err != nil {
				return fmt.Errorf("failed to delete order items: %w", err)
			}
			for i := range order.Items {
				order.Items[i].OrderID = orderID
				if _, err := s.orderRepo.CreateOrderItem(ctx, exec, &order.Items[i]); err != nil {
					return fmt.Errorf("failed to create order item (item_id: %d): %w", order.Items[i].ItemID, err)
				}
			}
		}
		if err := s.orderRepo.UpdateOrder(ctx, exec, order); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", orderID).Bool("items_replaced", replaceItems).Msg("Order updated")
	return s.GetOrderByID(ctx, orderID)
}

// UpdateOrderStatus sets any valid status; there is no transition graph.
// Reaching served or cancelled releases the table.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, req.Status)
	}
	status := models.OrderStatus(req.Status)

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tableID, err := s.orderRepo.UpdateOrderStatus(ctx, exec, orderID, status, s.now())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to update order status in repository: %w", err)
		}
		if status.ReleasesTable() {
			return s.occupancy.Release(ctx, exec, tableID, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", orderID).Str("status", req.Status).Msg("Order status updated")
	return s.GetOrderByID(ctx, orderID)
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID int64, req UpdatePaymentStatusRequest) (*models.Order, error) {
	if !models.IsValidPaymentStatus(req.PaymentStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, req.PaymentStatus)
	}

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		err := s.orderRepo.UpdatePaymentStatus(ctx, exec, orderID, models.PaymentStatus(req.PaymentStatus), s.now())
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	log.Info().Int64("order_id", orderID).Str("payment_status", req.PaymentStatus).Msg("Order payment status updated")
	return s.GetOrderByID(ctx, orderID)
}

// DeleteOrder removes a pending or cancelled order and releases its table.
func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for deletion: %w", err)
	}
	if !order.Status.IsDeletable() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderInProgress, order.OrderNumber, order.Status)
	}

	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.orderRepo.DeleteOrder(ctx, exec, orderID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return s.occupancy.Release(ctx, exec, order.TableID, orderID)
	})
	if err != nil {
		return err
	}

	log.Info().Int64("order_id", orderID).Str("order_number", order.OrderNumber).Msg("Order deleted")
	return nil
}

func (s *orderService) GetOrderStats(ctx context.Context) (*models.OrderStats, error) {
	now := s.now().In(s.cfg.Location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	stats, err := s.orderRepo.GetOrderStats(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order statistics: %w", err)
	}
	return stats, nil
}
