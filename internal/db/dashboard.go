package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TopErrorTypes ranks a user's most frequent error types
func (db *DB) TopErrorTypes(ctx context.Context, userID uuid.UUID, limit int) ([]ErrorTypeCount, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.pool.Query(ctx,
		`SELECT e.error_type, COUNT(*) AS n
		 FROM errors e
		 JOIN corrected_texts t ON t.id = e.text_id
		 WHERE t.user_id = $1
		 GROUP BY e.error_type
		 ORDER BY n DESC, e.error_type
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank error types: %w", err)
	}
	defer rows.Close()

	out := []ErrorTypeCount{}
	for rows.Next() {
		var c ErrorTypeCount
		if err := rows.Scan(&c.ErrorType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan error type row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read error type rows: %w", err)
	}
	return out, nil
}

// RecentErrorCounts returns the per-text error counts of a user's most
// recent corrections, newest first. The dashboard derives its progress
// trend from these.
func (db *DB) RecentErrorCounts(ctx context.Context, userID uuid.UUID, limit int) ([]int, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT error_count
		 FROM corrected_texts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent error counts: %w", err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan error count: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read error counts: %w", err)
	}
	return out, nil
}
