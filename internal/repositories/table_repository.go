package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"els_pos_backend/internal/models"
)

// TableRepository exposes the table lookups and the occupancy write the order core needs.
type TableRepository interface {
	GetTableByID(ctx context.Context, id int64) (*models.Table, error)
	GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error)
	// SetOccupied writes the occupancy flag and reports whether the row changed.
	SetOccupied(ctx context.Context, executor SQLExecutor, id int64, occupied bool) (bool, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableSelectColumns = `id, table_number, capacity, occupied, status, position_x, position_y, notes, created_at, updated_at`

func scanTableRow(row scanner) (*models.Table, error) {
	var t models.Table
	err := row.Scan(
		&t.ID, &t.TableNumber, &t.Capacity, &t.Occupied, &t.Status,
		&t.PositionX, &t.PositionY, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tableRepository) GetTableByID(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT ` + tableSelectColumns + ` FROM restaurant_tables WHERE id = $1`
	table, err := scanTableRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by ID %d: %v", ErrDatabaseError, id, err)
	}
	return table, nil
}

func (r *tableRepository) GetTables(ctx context.Context, filters models.TableFilters) ([]models.Table, error) {
	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Occupied != nil {
		conditions = append(conditions, fmt.Sprintf("occupied = $%d", argCounter))
		args = append(args, *filters.Occupied)
	}

	query := `SELECT ` + tableSelectColumns + ` FROM restaurant_tables`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY table_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		t, err := scanTableRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) SetOccupied(ctx context.Context, executor SQLExecutor, id int64, occupied bool) (bool, error) {
	query := `UPDATE restaurant_tables SET occupied = $1, updated_at = $2 WHERE id = $3 AND occupied <> $1`
	result, err := executor.ExecContext(ctx, query, occupied, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("%w: setting occupancy for table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for table occupancy ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected > 0, nil
}
