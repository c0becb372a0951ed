package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const dateOnlyLayout = "2006-01-02"

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
	location     *time.Location
}

// NewOrderHandler creates a new OrderHandler. Date-only query parameters are
// read in loc.
func NewOrderHandler(os services.OrderService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &OrderHandler{orderService: os, location: loc}
}

// CreateOrder handles the creation of a new order with its items and staff.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create order.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusCreated, "Order created successfully", order)
}

// GetOrders handles fetching orders with filters, pagination and sorting.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	filters, err := h.parseOrderFilters(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
	}

	utils.LogDebug("GetOrders: parsed filters", map[string]interface{}{
		"page": filters.Page, "limit": filters.Limit, "sort_by": filters.SortBy, "sort_desc": filters.SortDesc,
	})

	orders, page, err := h.orderService.GetOrders(c.Request.Context(), filters)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve orders.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Orders retrieved successfully", gin.H{
		"orders":     orders,
		"pagination": page,
	})
}

// GetOrderByID handles fetching a single order with its lines and table.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve order.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrdersByTable handles listing the orders of one table, newest first.
func (h *OrderHandler) GetOrdersByTable(c *gin.Context) {
	tableID, ok := parseIDParam(c, "tableId", "table ID")
	if !ok {
		return
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	orders, err := h.orderService.GetOrdersByTable(c.Request.Context(), tableID, status)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve table orders.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Table orders retrieved successfully", orders)
}

// UpdateOrder handles replacing the items, notes, customer count or tax rate of an order.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update order.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Order updated successfully", order)
}

// UpdateOrderStatus handles updating the status of an order.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update order status.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Order status updated successfully", order)
}

// UpdatePaymentStatus handles updating the payment status of an order.
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	var req services.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), orderID, req)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update payment status.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Payment status updated successfully", order)
}

// DeleteOrder handles deleting a pending or cancelled order.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order ID")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondWithServiceError(c, err, "Failed to delete order.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Order deleted successfully", nil)
}

// GetOrderStats handles the dashboard statistics for the current business day.
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	stats, err := h.orderService.GetOrderStats(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve order statistics.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Order statistics retrieved successfully", stats)
}

func (h *OrderHandler) parseOrderFilters(c *gin.Context) (models.OrderFilters, error) {
	filters := models.OrderFilters{SortDesc: true}

	if s := c.Query("status"); s != "" {
		filters.Status = &s
	}
	if s := c.Query("payment_status"); s != "" {
		filters.PaymentStatus = &s
	}
	if s := c.Query("table_id"); s != "" {
		tableID, err := utils.StrToInt64(s)
		if err != nil || tableID < 1 {
			return filters, fmt.Errorf("invalid table_id %q", s)
		}
		filters.TableID = &tableID
	}
	if s := c.Query("start_date"); s != "" {
		start, err := parseDateParam(s, h.location, false)
		if err != nil {
			return filters, fmt.Errorf("invalid start_date %q", s)
		}
		filters.StartDate = &start
	}
	if s := c.Query("end_date"); s != "" {
		end, err := parseDateParam(s, h.location, true)
		if err != nil {
			return filters, fmt.Errorf("invalid end_date %q", s)
		}
		filters.EndDate = &end
	}
	if s := c.Query("page"); s != "" {
		page, err := utils.StrToPositiveInt(s)
		if err != nil {
			return filters, fmt.Errorf("invalid page %q", s)
		}
		filters.Page = page
	}
	if s := c.Query("limit"); s != "" {
		limit, err := utils.StrToPositiveInt(s)
		if err != nil {
			return filters, fmt.Errorf("invalid limit %q", s)
		}
		filters.Limit = limit
	}
	filters.SortBy = c.Query("sort_by")

	switch strings.ToLower(c.DefaultQuery("sort_order", "desc")) {
	case "desc":
	case "asc":
		filters.SortDesc = false
	default:
		return filters, fmt.Errorf("invalid sort_order %q, expected asc or desc", c.Query("sort_order"))
	}
	return filters, nil
}

// parseDateParam accepts RFC 3339 timestamps or bare dates. A bare end date
// covers the whole day.
func parseDateParam(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(dateOnlyLayout, value, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
