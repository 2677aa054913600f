package sqlite

import (
	"context"
	"time"

	"github.com/scentdex/scentdex-server/internal/store"
)

// Total returns the number of catalog records.
func (s *Store) Total(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragrances`).Scan(&count)
	if err != nil {
		return 0, store.ErrInternal.WithCause(err)
	}
	return count, nil
}

// CountBySource returns record counts grouped by provenance.
func (s *Store) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data_source, COUNT(*) FROM fragrances GROUP BY data_source`)
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, store.ErrInternal.WithCause(err)
		}
		counts[source] = count
	}
	return counts, rows.Err()
}

// CountByMinPriority returns the number of records at or above a market
// priority weight. Used for per-tier coverage reporting.
func (s *Store) CountByMinPriority(ctx context.Context, weight float64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fragrances WHERE market_priority >= ?`, weight).Scan(&count)
	if err != nil {
		return 0, store.ErrInternal.WithCause(err)
	}
	return count, nil
}

// CountPromotedSince returns the number of records promoted from the external
// catalog after the given instant.
func (s *Store) CountPromotedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fragrances WHERE promoted_at IS NOT NULL AND promoted_at >= ?`,
		formatTime(since)).Scan(&count)
	if err != nil {
		return 0, store.ErrInternal.WithCause(err)
	}
	return count, nil
}

// AverageQuality returns the mean data-quality score, zero for an empty catalog.
func (s *Store) AverageQuality(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(data_quality), 0) FROM fragrances`).Scan(&avg)
	if err != nil {
		return 0, store.ErrInternal.WithCause(err)
	}
	return avg, nil
}
