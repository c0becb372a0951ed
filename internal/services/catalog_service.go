package services

import (
	"context"
	"errors"
	"fmt"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
)

const DefaultCatalogLimit = 100

// CatalogService is the read-only view of the menu and staff roster that
// order entry screens pick from.
type CatalogService interface {
	GetItems(ctx context.Context, filters models.CatalogFilters) ([]models.Item, models.Pagination, error)
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetStaff(ctx context.Context, filters models.CatalogFilters) ([]models.Staff, models.Pagination, error)
	GetStaffByID(ctx context.Context, id int64) (*models.Staff, error)
}

type catalogService struct {
	itemRepo  repositories.ItemRepository
	staffRepo repositories.StaffRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(ir repositories.ItemRepository, sr repositories.StaffRepository) CatalogService {
	return &catalogService{itemRepo: ir, staffRepo: sr}
}

func normalizeCatalogFilters(filters *models.CatalogFilters) error {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultCatalogLimit
	}
	if filters.Status != nil && *filters.Status != models.EntityStatusActive && *filters.Status != models.EntityStatusInactive {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, *filters.Status)
	}
	return nil
}

func (s *catalogService) GetItems(ctx context.Context, filters models.CatalogFilters) ([]models.Item, models.Pagination, error) {
	if err := normalizeCatalogFilters(&filters); err != nil {
		return nil, models.Pagination{}, err
	}
	items, total, err := s.itemRepo.GetItems(ctx, filters)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to get items: %w", err)
	}
	return items, models.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *catalogService) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item ID %d", ErrItemNotFound, id)
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	return item, nil
}

func (s *catalogService) GetStaff(ctx context.Context, filters models.CatalogFilters) ([]models.Staff, models.Pagination, error) {
	if err := normalizeCatalogFilters(&filters); err != nil {
		return nil, models.Pagination{}, err
	}
	members, total, err := s.staffRepo.GetStaff(ctx, filters)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return members, models.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *catalogService) GetStaffByID(ctx context.Context, id int64) (*models.Staff, error) {
	staff, err := s.staffRepo.GetStaffByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrStaffNotFound, id)
		}
		return nil, fmt.Errorf("failed to get staff member by ID: %w", err)
	}
	return staff, nil
}
