package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"els_pos_backend/internal/models"
)

// StaffRepository is the read-only staff lookup used when assigning staff to orders.
type StaffRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*models.Staff, error)
	GetStaff(ctx context.Context, filters models.CatalogFilters) ([]models.Staff, int, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

const staffSelectColumns = `id, name, email, phone, role, status, bonus, created_at, updated_at`

func scanStaffRow(row scanner, extra ...interface{}) (*models.Staff, error) {
	var staff models.Staff
	dest := append([]interface{}{
		&staff.ID, &staff.Name, &staff.Email, &staff.Phone, &staff.Role, &staff.Status, &staff.Bonus,
		&staff.CreatedAt, &staff.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetStaffByID(ctx context.Context, id int64) (*models.Staff, error) {
	query := `SELECT ` + staffSelectColumns + ` FROM staff WHERE id = $1`
	staff, err := scanStaffRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return staff, nil
}

// GetStaff returns one page of staff members ordered by name together with
// the total number of matching rows.
func (r *staffRepository) GetStaff(ctx context.Context, filters models.CatalogFilters) ([]models.Staff, int, error) {
	members := []models.Staff{}
	totalCount := 0

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Role != nil && *filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *filters.Role)
		argCount++
	}

	query := `SELECT ` + staffSelectColumns + `, COUNT(*) OVER() AS total_count FROM staff`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		staff, err := scanStaffRow(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		members = append(members, *staff)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff: %v", ErrDatabaseError, err)
	}
	return members, totalCount, nil
}
