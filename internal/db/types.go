package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account row
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CorrectedText represents a saved correction
type CorrectedText struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	OriginalText  string    `json:"original_text"`
	CorrectedText string    `json:"corrected_text"`
	Language      string    `json:"language"`
	ErrorCount    int       `json:"error_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// TextError represents one error recorded against a saved correction
type TextError struct {
	ID            uuid.UUID `json:"id"`
	TextID        uuid.UUID `json:"text_id"`
	ErrorType     string    `json:"error_type"`
	ErrorMessage  string    `json:"error_message"`
	Severity      string    `json:"severity"`
	PositionStart int       `json:"position_start"`
	PositionEnd   int       `json:"position_end"`
	OriginalWord  string    `json:"original_word,omitempty"`
	CorrectedWord string    `json:"corrected_word,omitempty"`
}

// Reformulation represents a saved style rewrite
type Reformulation struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	OriginalText     string    `json:"original_text"`
	ReformulatedText string    `json:"reformulated_text"`
	Style            string    `json:"style"`
	Language         string    `json:"language"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryEntry is a saved correction together with its errors
type HistoryEntry struct {
	CorrectedText
	Errors []TextError `json:"errors"`
}

// UserStats aggregates a user's correction activity
type UserStats struct {
	TotalCorrections int     `json:"total_corrections"`
	TotalErrors      int     `json:"total_errors"`
	AverageErrors    float64 `json:"average_errors"`
	FrenchTexts      int     `json:"french_texts"`
	EnglishTexts     int     `json:"english_texts"`
}

// ErrorTypeCount is one row of the most-frequent-error-types ranking
type ErrorTypeCount struct {
	ErrorType string `json:"error_type"`
	Count     int    `json:"count"`
}
