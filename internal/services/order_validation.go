package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
)

// ItemLineRequest references one menu item on an order.
type ItemLineRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// StaffLineRequest references one staff member on an order. Quantity defaults to 1.
type StaffLineRequest struct {
	StaffID  int64 `json:"staff_id"`
	Quantity *int  `json:"quantity"`
}

// ResolvedReferences are the collaborators of a new order, checked and snapshotted.
type ResolvedReferences struct {
	Table *models.Table
	Items []models.OrderItem
	Staff []models.OrderStaff
}

// ReferenceValidator resolves table, staff and item references against their
// repositories. It only reads.
type ReferenceValidator struct {
	tableRepo repositories.TableRepository
	itemRepo  repositories.ItemRepository
	staffRepo repositories.StaffRepository
}

// NewReferenceValidator creates a new ReferenceValidator.
func NewReferenceValidator(
	tr repositories.TableRepository,
	ir repositories.ItemRepository,
	sr repositories.StaffRepository,
) *ReferenceValidator {
	return &ReferenceValidator{tableRepo: tr, itemRepo: ir, staffRepo: sr}
}

// Resolve checks every reference of a create request. Shape problems (empty
// lists, quantities below 1) are reported before any lookup.
func (v *ReferenceValidator) Resolve(ctx context.Context, tableID int64, staff []StaffLineRequest, items []ItemLineRequest) (*ResolvedReferences, error) {
	if err := checkLineShapes(staff, items); err != nil {
		return nil, err
	}

	table, err := v.tableRepo.GetTableByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, tableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}

	staffLines, err := v.resolveStaff(ctx, staff)
	if err != nil {
		return nil, err
	}
	itemLines, err := v.ResolveItems(ctx, items)
	if err != nil {
		return nil, err
	}

	return &ResolvedReferences{Table: table, Items: itemLines, Staff: staffLines}, nil
}

// ResolveItems turns item references into snapshotted order lines. Inactive
// items are rejected.
func (v *ReferenceValidator) ResolveItems(ctx context.Context, items []ItemLineRequest) ([]models.OrderItem, error) {
	return v.resolveItems(ctx, items, true)
}

// ResolveReplacementItems resolves the new item list of an existing order.
// Items only need to exist; an item taken off the menu can still be rung up
// on an order that is already open.
func (v *ReferenceValidator) ResolveReplacementItems(ctx context.Context, items []ItemLineRequest) ([]models.OrderItem, error) {
	return v.resolveItems(ctx, items, false)
}

func (v *ReferenceValidator) resolveItems(ctx context.Context, items []ItemLineRequest, requireAvailable bool) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	lines := make([]models.OrderItem, 0, len(items))
	for i, req := range items {
		if msg := quantityProblem(req.Quantity); msg != "" {
			return nil, fmt.Errorf("%w: items[%d]: %s", ErrValidation, i, msg)
		}
		item, err := v.itemRepo.GetItemByID(ctx, req.ItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: item ID %d", ErrItemNotFound, req.ItemID)
			}
			return nil, fmt.Errorf("failed to fetch item %d: %w", req.ItemID, err)
		}
		if requireAvailable && !item.IsAvailable() {
			return nil, fmt.Errorf("%w: item %q", ErrItemUnavailable, item.Name)
		}
		lines = append(lines, models.OrderItem{
			ItemID:       item.ID,
			ItemSnapshot: item.Snapshot(),
			Quantity:     req.Quantity,
			Notes:        strings.TrimSpace(req.Notes),
		})
	}
	return lines, nil
}

func (v *ReferenceValidator) resolveStaff(ctx context.Context, staff []StaffLineRequest) ([]models.OrderStaff, error) {
	lines := make([]models.OrderStaff, 0, len(staff))
	for _, req := range staff {
		member, err := v.staffRepo.GetStaffByID(ctx, req.StaffID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: staff ID %d", ErrStaffNotFound, req.StaffID)
			}
			return nil, fmt.Errorf("failed to fetch staff member %d: %w", req.StaffID, err)
		}
		if !member.IsActive() {
			return nil, fmt.Errorf("%w: staff member %q", ErrStaffInactive, member.Name)
		}
		lines = append(lines, models.OrderStaff{
			StaffID:       member.ID,
			StaffSnapshot: member.Snapshot(),
			Quantity:      staffQuantity(req),
		})
	}
	return lines, nil
}

func staffQuantity(req StaffLineRequest) int {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

func checkLineShapes(staff []StaffLineRequest, items []ItemLineRequest) error {
	var problems []string
	if len(items) == 0 {
		problems = append(problems, "order must contain at least one item")
	}
	if len(staff) == 0 {
		problems = append(problems, "order must have at least one staff member assigned")
	}
	for i, it := range items {
		if msg := quantityProblem(it.Quantity); msg != "" {
			problems = append(problems, fmt.Sprintf("items[%d]: %s", i, msg))
		}
	}
	for i, st := range staff {
		if msg := quantityProblem(staffQuantity(st)); msg != "" {
			problems = append(problems, fmt.Sprintf("staff[%d]: %s", i, msg))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func quantityProblem(q int) string {
	switch {
	case q < 1:
		return "quantity must be at least 1"
	case q > models.MaxLineQuantity:
		return fmt.Sprintf("quantity cannot exceed %d", models.MaxLineQuantity)
	}
	return ""
}
