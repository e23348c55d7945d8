// Package types provides type definitions for structured data used throughout the text-corrector system.
package types

import "github.com/go-playground/validator/v10"

// Language is a supported correction language.
type Language string

// Supported languages.
const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageFrench || l == LanguageEnglish
}

// Severity levels reported for correction errors.
const (
	SeverityMinor      = "minor"
	SeverityMedium     = "medium"
	SeveritySevere     = "severe"
	SeveritySuggestion = "suggestion"
	SeverityMajor      = "major"
)

// Options are the user-selected correction options. They participate in
// the cache key: two requests with different options never share a result.
type Options struct {
	IgnoreAccents     bool `json:"ignoreAccents"`
	IgnoreCase        bool `json:"ignoreCase"`
	IgnoreProperNouns bool `json:"ignoreProperNouns"`
}

// CorrectionError is a single error reported by the model, annotated with
// its character span in the original text. A 0/0 span means "unlocated":
// consumers must not highlight anything, not highlight the text start.
type CorrectionError struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	Severity      string `json:"severity"`
	Original      string `json:"original,omitempty"`
	Correction    string `json:"correction,omitempty"`
	PositionStart int    `json:"positionStart"`
	PositionEnd   int    `json:"positionEnd"`
}

// Located reports whether the error carries a resolved character span.
func (e *CorrectionError) Located() bool {
	return e.PositionStart != 0 || e.PositionEnd != 0
}

// CorrectionResult is the structured outcome of a correction request.
type CorrectionResult struct {
	CorrectedText string            `json:"correctedText"`
	Errors        []CorrectionError `json:"errors"`

	// Degraded is set when the engine exhausted its retries and fell
	// back to returning the input verbatim with an advisory error.
	// Degraded results are never cached.
	Degraded bool `json:"-"`
}

// CorrectionRequest is the request body for the /correct endpoint.
type CorrectionRequest struct {
	Text     string   `json:"text" validate:"required"`
	Language Language `json:"language" validate:"required,oneof=fr en"`
	Options  Options  `json:"options"`
}

// ReformulationRequest is the request body for the /reformulate endpoint.
type ReformulationRequest struct {
	Text     string   `json:"text" validate:"required"`
	Language Language `json:"language" validate:"required,oneof=fr en"`
	Style    string   `json:"style" validate:"required,min=1"`
}

// DetectLanguageRequest is the request body for the /detect-language endpoint.
type DetectLanguageRequest struct {
	Text string `json:"text" validate:"required"`
}

// Validate validates the CorrectionRequest using the validator.
func (r *CorrectionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReformulationRequest using the validator.
func (r *ReformulationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the DetectLanguageRequest using the validator.
func (r *DetectLanguageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
