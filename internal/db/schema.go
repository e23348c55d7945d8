package db

import (
	"context"
	"fmt"
)

// schema is the full DDL for a fresh database. Statements are idempotent
// so InitSchema can run at every startup.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS corrected_texts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		original_text TEXT NOT NULL,
		corrected_text TEXT NOT NULL,
		language TEXT NOT NULL,
		error_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS errors (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		text_id UUID NOT NULL REFERENCES corrected_texts(id) ON DELETE CASCADE,
		error_type TEXT NOT NULL,
		error_message TEXT NOT NULL,
		severity TEXT NOT NULL,
		position_start INTEGER NOT NULL DEFAULT 0,
		position_end INTEGER NOT NULL DEFAULT 0,
		original_word TEXT NOT NULL DEFAULT '',
		corrected_word TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS reformulations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		original_text TEXT NOT NULL,
		reformulated_text TEXT NOT NULL,
		style TEXT NOT NULL,
		language TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_corrected_texts_user_created
		ON corrected_texts (user_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_errors_text_id ON errors (text_id)`,

	`CREATE INDEX IF NOT EXISTS idx_reformulations_user_created
		ON reformulations (user_id, created_at DESC)`,
}

// InitSchema creates all tables and indexes if they do not exist
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
