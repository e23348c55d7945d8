package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zalint/text-corrector/internal/types"
)

// SaveReformulation stores a style rewrite and returns its ID
func (db *DB) SaveReformulation(ctx context.Context, userID uuid.UUID, originalText, reformulatedText, style string, language types.Language) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO reformulations (user_id, original_text, reformulated_text, style, language)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, originalText, reformulatedText, style, language,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save reformulation: %w", err)
	}
	return id, nil
}

// ListReformulations retrieves a user's most recent rewrites, newest first
func (db *DB) ListReformulations(ctx context.Context, userID uuid.UUID, limit int) ([]Reformulation, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, original_text, reformulated_text, style, language, created_at
		 FROM reformulations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reformulations: %w", err)
	}
	defer rows.Close()

	out := []Reformulation{}
	for rows.Next() {
		var r Reformulation
		if err := rows.Scan(&r.ID, &r.UserID, &r.OriginalText, &r.ReformulatedText, &r.Style, &r.Language, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reformulation row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reformulation rows: %w", err)
	}
	return out, nil
}
