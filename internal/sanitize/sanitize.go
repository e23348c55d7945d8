// Package sanitize provides the first defense layer of the correction
// pipeline: control-character stripping, length capping and neutralization
// of known prompt-injection patterns in user-submitted text.
//
// The pattern blocklist is intentionally not comprehensive. String matching
// cannot be a security boundary against prompt injection; this layer only
// removes the obvious cases, and the sentinel model call behind it handles
// the rest on a best-effort basis.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxTextLength is the hard cap applied to submitted text. Longer inputs
// are silently truncated, not rejected.
const MaxTextLength = 10000

// MinTextLength is the minimum cleaned length accepted by Validate.
const MinTextLength = 3

// MaxInstructionTokenRatio is the fraction of whitespace-delimited tokens
// allowed to match the instruction vocabulary before Validate rejects the
// input as instruction-dominant.
const MaxInstructionTokenRatio = 0.3

// neutralMarker replaces each injection-pattern match.
const neutralMarker = "..."

// injectionPatterns are regexes for known prompt-injection phrasings.
// Matches are replaced with a neutral marker and logged; a match alone
// does not reject the request.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsystem\s*:`),
	regexp.MustCompile(`(?i)\bassistant\s*:`),
	regexp.MustCompile(`(?i)\buser\s*:`),
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)forget\s+(everything|all)\s+(above|before)`),
	regexp.MustCompile(`(?i)act\s+as\s+if`),
	regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|in)\b`),
	regexp.MustCompile(`(?i)enable\s+developer\s+mode`),
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
	regexp.MustCompile(`(?i)\bDAN\s+mode\b`),
}

// instructionVocabulary is the word list used by the instruction-density
// guard in Validate. Matching is by substring against lowercased tokens,
// so "systems" counts as "system". False positives on legitimate prose
// about systems or ignoring advice are an accepted tradeoff.
var instructionVocabulary = []string{
	"system",
	"assistant",
	"instruction",
	"ignore",
	"bypass",
	"override",
	"disregard",
	"pretend",
	"jailbreak",
	"prompt",
}

// controlChars matches C0 and C1 control characters except common
// whitespace (tab, newline, carriage return).
var controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-]")

// Sanitize strips control characters, enforces the length cap and
// neutralizes known injection patterns. It is idempotent: a second pass
// over its own output is a no-op.
func Sanitize(text string) string {
	clean := controlChars.ReplaceAllString(text, "")

	if len(clean) > MaxTextLength {
		clean = clean[:MaxTextLength]
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(clean) {
			log.Warn().
				Str("component", "sanitize").
				Str("pattern", pattern.String()).
				Msg("neutralized injection pattern in submitted text")
			clean = pattern.ReplaceAllString(clean, neutralMarker)
		}
	}

	return strings.TrimSpace(clean)
}

// Validate rejects cleaned text that is too short or instruction-dominant.
// It returns a *ValidationError describing the failure, or nil.
func Validate(clean string) error {
	if len(clean) < MinTextLength {
		return &ValidationError{Reason: "text too short after sanitization"}
	}

	tokens := strings.Fields(clean)
	if len(tokens) == 0 {
		return &ValidationError{Reason: "text contains no words"}
	}

	suspicious := 0
	for _, token := range tokens {
		lower := strings.ToLower(token)
		for _, word := range instructionVocabulary {
			if strings.Contains(lower, word) {
				suspicious++
				break
			}
		}
	}

	ratio := float64(suspicious) / float64(len(tokens))
	if ratio > MaxInstructionTokenRatio {
		return &ValidationError{
			Reason: "text appears to be dominated by instructions rather than prose",
		}
	}

	return nil
}
