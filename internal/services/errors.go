package services

import "errors"

// --- Custom Service Errors ---
var (
	ErrValidation = errors.New("validation error") // Generic validation error

	ErrOrderNotFound = errors.New("order not found")
	ErrTableNotFound = errors.New("table not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrStaffNotFound = errors.New("staff member not found")

	ErrItemUnavailable = errors.New("item is not available")
	ErrStaffInactive   = errors.New("staff member is not active")

	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	ErrOrderInProgress     = errors.New("cannot delete order that is in progress")
	ErrOrderNumberConflict = errors.New("order number already exists")
)
