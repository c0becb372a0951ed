package services

import (
	"context"
	"fmt"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"

	"github.com/rs/zerolog/log"
)

// TableOccupancySync flips a table's occupied flag as orders are created,
// finished and removed. The flag is never set directly by clients.
type TableOccupancySync struct {
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	mode      string
}

// NewTableOccupancySync creates a TableOccupancySync for the given mode.
func NewTableOccupancySync(tr repositories.TableRepository, or repositories.OrderRepository, mode string) (*TableOccupancySync, error) {
	switch mode {
	case "":
		mode = models.OccupancyModeSingle
	case models.OccupancyModeSingle, models.OccupancyModeRefCount:
	default:
		return nil, fmt.Errorf("unknown table occupancy mode %q", mode)
	}
	return &TableOccupancySync{tableRepo: tr, orderRepo: or, mode: mode}, nil
}

// Occupy marks the table as in use. Already occupied tables are left alone.
func (s *TableOccupancySync) Occupy(ctx context.Context, exec repositories.SQLExecutor, tableID int64) error {
	changed, err := s.tableRepo.SetOccupied(ctx, exec, tableID, true)
	if err != nil {
		return fmt.Errorf("failed to occupy table %d: %w", tableID, err)
	}
	if changed {
		log.Info().Int64("table_id", tableID).Msg("Table occupied")
	}
	return nil
}

// Release frees the table after orderID reached a terminal status or was deleted.
// In single mode the flag is cleared even while other orders are still open on
// the table.
func (s *TableOccupancySync) Release(ctx context.Context, exec repositories.SQLExecutor, tableID, orderID int64) error {
	if s.mode == models.OccupancyModeRefCount {
		open, err := s.orderRepo.CountOpenOrdersForTable(ctx, exec, tableID, orderID)
		if err != nil {
			return fmt.Errorf("failed to count open orders for table %d: %w", tableID, err)
		}
		if open > 0 {
			log.Debug().Int64("table_id", tableID).Int("open_orders", open).Msg("Table kept occupied")
			return nil
		}
	}

	changed, err := s.tableRepo.SetOccupied(ctx, exec, tableID, false)
	if err != nil {
		return fmt.Errorf("failed to release table %d: %w", tableID, err)
	}
	if changed {
		log.Info().Int64("table_id", tableID).Int64("order_id", orderID).Msg("Table released")
	}
	return nil
}
