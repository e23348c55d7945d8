package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zalint/text-corrector/internal/types"
)

// SaveCorrection stores a correction and its errors in one transaction
// and returns the new text ID.
func (db *DB) SaveCorrection(ctx context.Context, userID uuid.UUID, originalText string, language types.Language, result *types.CorrectionResult) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var textID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO corrected_texts (user_id, original_text, corrected_text, language, error_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, originalText, result.CorrectedText, language, len(result.Errors),
	).Scan(&textID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save correction: %w", err)
	}

	for _, e := range result.Errors {
		_, err = tx.Exec(ctx,
			`INSERT INTO errors (text_id, error_type, error_message, severity, position_start, position_end, original_word, corrected_word)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			textID, e.Type, e.Message, e.Severity, e.PositionStart, e.PositionEnd, e.Original, e.Correction,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to save correction error: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit correction: %w", err)
	}
	return textID, nil
}

// GetTextDetails retrieves one saved correction, returning nil when the
// text does not exist or belongs to another user.
func (db *DB) GetTextDetails(ctx context.Context, userID, textID uuid.UUID) (*CorrectedText, error) {
	var t CorrectedText
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, original_text, corrected_text, language, error_count, created_at
		 FROM corrected_texts WHERE id = $1 AND user_id = $2`,
		textID, userID,
	).Scan(&t.ID, &t.UserID, &t.OriginalText, &t.CorrectedText, &t.Language, &t.ErrorCount, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get text details: %w", err)
	}
	return &t, nil
}

// GetTextErrors retrieves the errors of one saved correction. Ownership
// is enforced through the join: foreign texts yield an empty slice.
func (db *DB) GetTextErrors(ctx context.Context, userID, textID uuid.UUID) ([]TextError, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT e.id, e.text_id, e.error_type, e.error_message, e.severity,
		        e.position_start, e.position_end, e.original_word, e.corrected_word
		 FROM errors e
		 JOIN corrected_texts t ON t.id = e.text_id
		 WHERE e.text_id = $1 AND t.user_id = $2
		 ORDER BY e.position_start`,
		textID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get text errors: %w", err)
	}
	defer rows.Close()

	return scanTextErrors(rows)
}

// GetHistory retrieves a user's most recent corrections with their
// errors, newest first.
func (db *DB) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, original_text, corrected_text, language, error_count, created_at
		 FROM corrected_texts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var t CorrectedText
		if err := rows.Scan(&t.ID, &t.UserID, &t.OriginalText, &t.CorrectedText, &t.Language, &t.ErrorCount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, HistoryEntry{CorrectedText: t, Errors: []TextError{}})
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	errRows, err := db.pool.Query(ctx,
		`SELECT id, text_id, error_type, error_message, severity,
		        position_start, position_end, original_word, corrected_word
		 FROM errors
		 WHERE text_id = ANY($1)
		 ORDER BY position_start`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get history errors: %w", err)
	}
	defer errRows.Close()

	textErrors, err := scanTextErrors(errRows)
	if err != nil {
		return nil, err
	}
	byText := map[uuid.UUID][]TextError{}
	for _, e := range textErrors {
		byText[e.TextID] = append(byText[e.TextID], e)
	}
	for i := range entries {
		if errs, ok := byText[entries[i].ID]; ok {
			entries[i].Errors = errs
		}
	}
	return entries, nil
}

// GetUserStats aggregates a user's correction activity
func (db *DB) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var s UserStats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(error_count), 0),
		        COALESCE(AVG(error_count), 0),
		        COUNT(*) FILTER (WHERE language = 'fr'),
		        COUNT(*) FILTER (WHERE language = 'en')
		 FROM corrected_texts WHERE user_id = $1`,
		userID,
	).Scan(&s.TotalCorrections, &s.TotalErrors, &s.AverageErrors, &s.FrenchTexts, &s.EnglishTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &s, nil
}

func scanTextErrors(rows pgx.Rows) ([]TextError, error) {
	out := []TextError{}
	for rows.Next() {
		var e TextError
		if err := rows.Scan(&e.ID, &e.TextID, &e.ErrorType, &e.ErrorMessage, &e.Severity,
			&e.PositionStart, &e.PositionEnd, &e.OriginalWord, &e.CorrectedWord); err != nil {
			return nil, fmt.Errorf("failed to scan error row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read error rows: %w", err)
	}
	return out, nil
}
