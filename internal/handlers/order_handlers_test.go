package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	createErr   error
	created     services.CreateOrderRequest
	filters     models.OrderFilters
	listErr     error
	getErr      error
	deleteErr   error
	statusReq   services.UpdateOrderStatusRequest
	byTableArgs struct {
		tableID int64
		status  *string
	}
}

func (s *stubOrderService) CreateOrder(_ context.Context, req services.CreateOrderRequest) (*models.Order, error) {
	s.created = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Order{
		ID:          1,
		OrderNumber: "ORD250115001",
		TableID:     req.TableID,
		Subtotal:    decimal.NewFromInt(25),
		Tax:         decimal.NewFromInt(2),
		Total:       decimal.NewFromInt(27),
		Status:      models.OrderStatusServed,
	}, nil
}

func (s *stubOrderService) GetOrders(_ context.Context, filters models.OrderFilters) ([]models.Order, models.Pagination, error) {
	s.filters = filters
	if s.listErr != nil {
		return nil, models.Pagination{}, s.listErr
	}
	return []models.Order{{ID: 3}}, models.NewPagination(2, 1, 3), nil
}

func (s *stubOrderService) GetOrderByID(_ context.Context, orderID int64) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Order{ID: orderID}, nil
}

func (s *stubOrderService) GetOrdersByTable(_ context.Context, tableID int64, status *string) ([]models.Order, error) {
	s.byTableArgs.tableID = tableID
	s.byTableArgs.status = status
	return []models.Order{}, nil
}

func (s *stubOrderService) UpdateOrder(_ context.Context, orderID int64, _ services.UpdateOrderRequest) (*models.Order, error) {
	return &models.Order{ID: orderID}, nil
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, orderID int64, req services.UpdateOrderStatusRequest) (*models.Order, error) {
	s.statusReq = req
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", services.ErrInvalidOrderStatus, req.Status)
	}
	return &models.Order{ID: orderID, Status: models.OrderStatus(req.Status)}, nil
}

func (s *stubOrderService) UpdatePaymentStatus(_ context.Context, orderID int64, req services.UpdatePaymentStatusRequest) (*models.Order, error) {
	return &models.Order{ID: orderID, PaymentStatus: models.PaymentStatus(req.PaymentStatus)}, nil
}

func (s *stubOrderService) DeleteOrder(_ context.Context, _ int64) error {
	return s.deleteErr
}

func (s *stubOrderService) GetOrderStats(_ context.Context) (*models.OrderStats, error) {
	return &models.OrderStats{Overview: models.OrderOverviewStats{TotalOrders: 4}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func newOrderRouter(svc services.OrderService, loc *time.Location) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc, loc)
	r := gin.New()
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.GetOrders)
	r.GET("/orders/stats", h.GetOrderStats)
	r.GET("/orders/table/:tableId", h.GetOrdersByTable)
	r.GET("/orders/:id", h.GetOrderByID)
	r.PUT("/orders/:id", h.UpdateOrder)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	r.PATCH("/orders/:id/payment", h.UpdatePaymentStatus)
	r.DELETE("/orders/:id", h.DeleteOrder)
	return r
}

func perform(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestCreateOrderHandler(t *testing.T) {
	svc := &stubOrderService{}
	r := newOrderRouter(svc, time.UTC)

	w, env := perform(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"table_id": 5,
		"items":    []map[string]interface{}{{"item_id": 1, "quantity": 2}},
		"tax_rate": "0",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Order created successfully", env.Message)

	var order struct {
		OrderNumber string `json:"order_number"`
		Total       string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "ORD250115001", order.OrderNumber)
	assert.Equal(t, "27", order.Total)

	assert.Equal(t, int64(5), svc.created.TableID)
	require.NotNil(t, svc.created.TaxRate)
	assert.True(t, svc.created.TaxRate.IsZero())
}

func TestCreateOrderHandler_MissingTable(t *testing.T) {
	r := newOrderRouter(&stubOrderService{}, time.UTC)

	w, env := perform(t, r, http.MethodPost, "/orders", map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, utils.ErrCodeValidationFailed, env.Error.Code)
}

func TestCreateOrderHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: table ID 99", services.ErrTableNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{fmt.Errorf("%w: staff member %q", services.ErrStaffInactive, "Alex"), http.StatusBadRequest, utils.ErrCodeBadRequest},
		{fmt.Errorf("%w: item %q", services.ErrItemUnavailable, "Soup"), http.StatusBadRequest, utils.ErrCodeBadRequest},
		{fmt.Errorf("%w: order must have at least one item", services.ErrValidation), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{services.ErrOrderNumberConflict, http.StatusConflict, utils.ErrCodeConflict},
		{errors.New("connection reset"), http.StatusInternalServerError, utils.ErrCodeInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newOrderRouter(&stubOrderService{createErr: tt.err}, time.UTC)
			w, env := perform(t, r, http.MethodPost, "/orders", map[string]interface{}{"table_id": 99})
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.err.Error(), env.Error.Details)
		})
	}
}

func TestCreateOrderHandler_StaffNameInMessage(t *testing.T) {
	err := fmt.Errorf("%w: staff member %q", services.ErrStaffInactive, "Alex")
	r := newOrderRouter(&stubOrderService{createErr: err}, time.UTC)

	_, env := perform(t, r, http.MethodPost, "/orders", map[string]interface{}{"table_id": 1})
	assert.Contains(t, env.Message, "Alex")
}

func TestErrorDetailsHidden(t *testing.T) {
	utils.SetErrorDetailsHidden(true)
	defer utils.SetErrorDetailsHidden(false)

	r := newOrderRouter(&stubOrderService{createErr: errors.New("pq: relation does not exist")}, time.UTC)
	w, env := perform(t, r, http.MethodPost, "/orders", map[string]interface{}{"table_id": 1})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to create order.", env.Message)
	assert.Empty(t, env.Error.Details)
}

func TestGetOrdersHandler_ParsesQuery(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	svc := &stubOrderService{}
	r := newOrderRouter(svc, loc)

	w, env := perform(t, r, http.MethodGet,
		"/orders?status=pending&payment_status=unpaid&table_id=4&start_date=2025-01-10&end_date=2025-01-15&page=2&limit=1&sort_by=total&sort_order=ASC", nil)
	require.Equal(t, http.StatusOK, w.Code)

	f := svc.filters
	require.NotNil(t, f.Status)
	assert.Equal(t, "pending", *f.Status)
	assert.Equal(t, "unpaid", *f.PaymentStatus)
	assert.Equal(t, int64(4), *f.TableID)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, loc), *f.StartDate)
	assert.Equal(t, time.Date(2025, 1, 15, 23, 59, 59, int(time.Second-time.Nanosecond), loc), *f.EndDate)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 1, f.Limit)
	assert.Equal(t, "total", f.SortBy)
	assert.False(t, f.SortDesc)

	var data struct {
		Orders     []models.Order    `json:"orders"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Orders, 1)
	assert.Equal(t, models.Pagination{Current: 2, Pages: 3, Total: 3, Limit: 1}, data.Pagination)
}

func TestGetOrdersHandler_Defaults(t *testing.T) {
	svc := &stubOrderService{}
	r := newOrderRouter(svc, time.UTC)

	w, _ := perform(t, r, http.MethodGet, "/orders?end_date=2025-01-15T10:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.filters.SortDesc)
	assert.Zero(t, svc.filters.Page)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), svc.filters.EndDate.UTC())
}

func TestGetOrdersHandler_InvalidQuery(t *testing.T) {
	for _, query := range []string{"page=0", "limit=abc", "table_id=-1", "start_date=yesterday", "sort_order=up"} {
		t.Run(query, func(t *testing.T) {
			r := newOrderRouter(&stubOrderService{}, time.UTC)
			w, env := perform(t, r, http.MethodGet, "/orders?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, utils.ErrCodeValidationFailed, env.Error.Code)
		})
	}
}

func TestGetOrdersHandler_UnknownSort(t *testing.T) {
	svc := &stubOrderService{listErr: fmt.Errorf("%w: cannot sort by %q", services.ErrValidation, "drop")}
	r := newOrderRouter(svc, time.UTC)

	w, _ := perform(t, r, http.MethodGet, "/orders?sort_by=drop", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderByIDHandler(t *testing.T) {
	r := newOrderRouter(&stubOrderService{}, time.UTC)
	w, env := perform(t, r, http.MethodGet, "/orders/12", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"id":12`)

	w, env = perform(t, r, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid order ID format.", env.Message)

	r = newOrderRouter(&stubOrderService{getErr: services.ErrOrderNotFound}, time.UTC)
	w, env = perform(t, r, http.MethodGet, "/orders/12", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.ErrCodeNotFound, env.Error.Code)
}

func TestGetOrdersByTableHandler(t *testing.T) {
	svc := &stubOrderService{}
	r := newOrderRouter(svc, time.UTC)

	w, _ := perform(t, r, http.MethodGet, "/orders/table/7?status=served", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.byTableArgs.tableID)
	require.NotNil(t, svc.byTableArgs.status)
	assert.Equal(t, "served", *svc.byTableArgs.status)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	svc := &stubOrderService{}
	r := newOrderRouter(svc, time.UTC)

	w, env := perform(t, r, http.MethodPatch, "/orders/3/status", map[string]string{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"ready"`)

	w, env = perform(t, r, http.MethodPatch, "/orders/3/status", map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeValidationFailed, env.Error.Code)

	w, _ = perform(t, r, http.MethodPatch, "/orders/3/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePaymentStatusHandler(t *testing.T) {
	r := newOrderRouter(&stubOrderService{}, time.UTC)

	w, env := perform(t, r, http.MethodPatch, "/orders/3/payment", map[string]string{"payment_status": "refunded"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"payment_status":"refunded"`)
}

func TestDeleteOrderHandler(t *testing.T) {
	r := newOrderRouter(&stubOrderService{}, time.UTC)
	w, env := perform(t, r, http.MethodDelete, "/orders/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	r = newOrderRouter(&stubOrderService{deleteErr: services.ErrOrderInProgress}, time.UTC)
	w, env = perform(t, r, http.MethodDelete, "/orders/3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot delete order that is in progress", env.Message)
}

func TestGetOrderStatsHandler(t *testing.T) {
	r := newOrderRouter(&stubOrderService{}, time.UTC)
	w, env := perform(t, r, http.MethodGet, "/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total_orders":4`)
}
