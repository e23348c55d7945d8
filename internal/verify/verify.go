// Package verify double-checks a correction with the cheap model. It is
// advisory: a failed verification never blocks the correction result,
// it only contributes feedback and extra errors for the caller to merge.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/types"
)

const (
	// minChangeRatio is the relative length change below which a review
	// call is not worth its cost. Near-identical pairs short-circuit to
	// valid.
	minChangeRatio = 0.1

	maxTokens = 1000
)

// Report is the outcome of verifying a correction.
type Report struct {
	IsValid          bool                    `json:"isValid"`
	Feedback         string                  `json:"feedback"`
	AdditionalErrors []types.CorrectionError `json:"additionalErrors"`
}

// validReport is the permissive default used whenever verification
// cannot run or cannot be trusted.
func validReport() Report {
	return Report{IsValid: true, AdditionalErrors: []types.CorrectionError{}}
}

// Verifier wraps the cheap model for correction review.
type Verifier struct {
	llm llm.Client
}

func New(client llm.Client) *Verifier {
	return &Verifier{llm: client}
}

// Verify reviews a correction. It never returns an error: any failure
// along the way degrades to the permissive default so the primary
// result always goes through.
func (v *Verifier) Verify(ctx context.Context, original, corrected string, language types.Language) Report {
	if changeRatio(original, corrected) < minChangeRatio {
		return validReport()
	}

	raw, err := v.llm.Complete(ctx, llm.Request{
		Role:         llm.RoleCheap,
		SystemPrompt: buildPrompt(language),
		UserContent:  fmt.Sprintf("Original text:\n%s\n\nCorrected text:\n%s", original, corrected),
		MaxTokens:    maxTokens,
		Temperature:  0,
	})
	if err != nil {
		log.Warn().Err(err).Str("component", "verify").Msg("verification call failed, accepting correction")
		return validReport()
	}

	var report Report
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &report); err != nil {
		log.Warn().Err(err).Str("component", "verify").Msg("unparseable verification response, accepting correction")
		return validReport()
	}
	if report.AdditionalErrors == nil {
		report.AdditionalErrors = []types.CorrectionError{}
	}
	return report
}

func buildPrompt(language types.Language) string {
	languageName := "French"
	if language == types.LanguageEnglish {
		languageName = "English"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a %s grammar expert. Review the correction below: compare the original and corrected texts and judge whether the correction is accurate and complete.\n\n", languageName)
	fmt.Fprintf(&sb, "Respond in %s.\n\n", languageName)
	sb.WriteString("Return ONLY valid JSON with this exact structure:\n")
	sb.WriteString(`{"isValid": true, "feedback": "brief assessment of the correction", "additionalErrors": [{"type": "error type", "message": "explanation", "severity": "minor", "original": "original word", "correction": "corrected word"}]}`)
	sb.WriteString("\n\nSet isValid to false only when the correction missed real errors or introduced new ones; list those in additionalErrors.")
	return sb.String()
}

// changeRatio measures how much the correction changed the text, as the
// relative character-length difference. In-place grammar fixes keep the
// length close, so a small ratio means a review call is not worth it.
func changeRatio(original, corrected string) float64 {
	if len(original) == 0 {
		return 0
	}
	diff := len(original) - len(corrected)
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(len(original))
}
