package services

import (
	"context"
	"errors"
	"fmt"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
)

// TableService is the read-only occupancy view over restaurant tables.
type TableService interface {
	GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error)
	GetTableByID(ctx context.Context, id int64) (*models.Table, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository) TableService {
	return &tableService{tableRepo: tr}
}

func (s *tableService) GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	if filters.Status != nil && *filters.Status != models.EntityStatusActive && *filters.Status != models.EntityStatusInactive {
		return nil, fmt.Errorf("%w: invalid table status %q", ErrValidation, *filters.Status)
	}
	tables, err := s.tableRepo.GetTables(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByID(ctx context.Context, id int64) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table by ID: %w", err)
	}
	return table, nil
}
