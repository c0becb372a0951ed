package repositories

import (
	"context"
	"fmt"
)

// OrderNumberRepository hands out per-day order sequence values.
type OrderNumberRepository interface {
	// NextSequence atomically increments the counter for day and returns the
	// new value. The counter never falls behind orders already numbered with
	// numberPrefix, so it can take over from the count strategy mid-day.
	NextSequence(ctx context.Context, executor SQLExecutor, day, numberPrefix string) (int, error)
}

type orderNumberRepository struct{}

// NewOrderNumberRepository creates a new instance of OrderNumberRepository.
func NewOrderNumberRepository() OrderNumberRepository {
	return &orderNumberRepository{}
}

// NextSequence relies on the upsert being a single statement: two concurrent
// callers for the same day serialize on the counter row and never share a value.
func (r *orderNumberRepository) NextSequence(ctx context.Context, executor SQLExecutor, day, numberPrefix string) (int, error) {
	query := `INSERT INTO order_number_counters (day, seq, updated_at)
	          VALUES ($1, 1 + (SELECT COALESCE(MAX(SUBSTRING(order_number FROM LENGTH($2) + 1)::INTEGER), 0)
	                           FROM orders WHERE order_number LIKE $2 || '%'), NOW())
	          ON CONFLICT (day) DO UPDATE
	          SET seq = GREATEST(order_number_counters.seq + 1, EXCLUDED.seq), updated_at = NOW()
	          RETURNING seq`
	var seq int
	if err := executor.QueryRowContext(ctx, query, day, numberPrefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: incrementing order counter for %s: %v", ErrDatabaseError, day, err)
	}
	return seq, nil
}
