package services

import (
	"context"
	"fmt"
	"time"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/repositories"
)

const orderNumberPrefix = "ORD"

// FormatOrderNumber renders "ORD" + YYMMDD + a zero-padded sequence of at least three digits.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%03d", orderNumberPrefix, day.Format("060102"), seq)
}

func orderNumberDayPrefix(day time.Time) string {
	return orderNumberPrefix + day.Format("060102")
}

// sequenceSource yields the next daily sequence value. It runs on the executor
// of the order-creation transaction.
type sequenceSource interface {
	next(ctx context.Context, exec repositories.SQLExecutor, day time.Time) (int, error)
}

type counterSequence struct {
	counters repositories.OrderNumberRepository
}

func (s counterSequence) next(ctx context.Context, exec repositories.SQLExecutor, day time.Time) (int, error) {
	return s.counters.NextSequence(ctx, exec, day.Format("2006-01-02"), orderNumberDayPrefix(day))
}

// countSequence is the legacy count-then-format scheme. Two concurrent callers
// can read the same count; the unique index on order_number rejects the loser.
type countSequence struct {
	orders repositories.OrderRepository
}

func (s countSequence) next(ctx context.Context, exec repositories.SQLExecutor, day time.Time) (int, error) {
	n, err := s.orders.CountOrdersWithNumberPrefix(ctx, exec, orderNumberDayPrefix(day))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// OrderNumberGenerator produces date-scoped order numbers in the business timezone.
type OrderNumberGenerator struct {
	source   sequenceSource
	location *time.Location
	now      func() time.Time
}

// NewOrderNumberGenerator creates a generator for the given strategy.
func NewOrderNumberGenerator(
	strategy string,
	counters repositories.OrderNumberRepository,
	orders repositories.OrderRepository,
	location *time.Location,
) (*OrderNumberGenerator, error) {
	var source sequenceSource
	switch strategy {
	case models.NumberStrategyCounter, "":
		source = counterSequence{counters: counters}
	case models.NumberStrategyCount:
		source = countSequence{orders: orders}
	default:
		return nil, fmt.Errorf("unknown order number strategy %q", strategy)
	}
	if location == nil {
		location = time.Local
	}
	return &OrderNumberGenerator{source: source, location: location, now: time.Now}, nil
}

// Next returns a new order number together with the instant it was issued for.
func (g *OrderNumberGenerator) Next(ctx context.Context, exec repositories.SQLExecutor) (string, time.Time, error) {
	issuedAt := g.now().In(g.location)
	seq, err := g.source.next(ctx, exec, issuedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate order number: %w", err)
	}
	return FormatOrderNumber(issuedAt, seq), issuedAt, nil
}
