package correction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/zalint/text-corrector/internal/types"
)

// A repairStrategy attempts to turn a corrupted model response into
// parseable JSON. Strategies are deterministic: the same input always
// yields the same output. They return ok=false when they do not apply.
type repairStrategy struct {
	name  string
	apply func(raw string) (string, bool)
}

// repairStrategies run in order; the first one whose output parses wins.
var repairStrategies = []repairStrategy{
	{name: "quote-run-truncation", apply: truncateQuoteRunCorruption},
	{name: "corrected-text-salvage", apply: salvageCorrectedText},
}

// quoteRunPattern matches the degenerate tails some models emit when a
// generation collapses: long runs of quote characters separated by
// commas or whitespace.
var quoteRunPattern = regexp.MustCompile(`(?:"[\s,]*){8,}`)

// truncateQuoteRunCorruption handles responses that start as valid JSON
// and then degenerate into repeated quote tokens. It cuts the response
// back to the last structurally complete error object and closes the
// document. It only applies when the corruption signature is present.
func truncateQuoteRunCorruption(raw string) (string, bool) {
	loc := quoteRunPattern.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}
	head := raw[:loc[0]]

	arrStart := strings.Index(head, `"errors"`)
	if arrStart == -1 {
		return "", false
	}
	open := strings.Index(head[arrStart:], "[")
	if open == -1 {
		return "", false
	}
	open += arrStart

	// Scan the array for complete top-level objects, quote-aware.
	lastComplete := -1
	depth := 0
	inString := false
	escaped := false
	for i := open + 1; i < len(head); i++ {
		c := head[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					lastComplete = i
				}
			}
		case ']':
			if !inString && depth == 0 {
				// Array closed before the corruption started.
				return "", false
			}
		}
	}
	if lastComplete == -1 {
		return "", false
	}
	return head[:lastComplete+1] + "]}", true
}

// correctedTextPattern extracts the correctedText value from otherwise
// unrecoverable responses. It stops at the first unescaped quote.
var correctedTextPattern = regexp.MustCompile(`"correctedText"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// salvageCorrectedText is the last-resort strategy: when the error list
// is beyond repair, recover just the corrected text and return it with
// an empty error list rather than discarding the whole response.
func salvageCorrectedText(raw string) (string, bool) {
	m := correctedTextPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	var unescaped string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &unescaped); err != nil {
		return "", false
	}
	if strings.TrimSpace(unescaped) == "" {
		return "", false
	}
	salvaged, err := json.Marshal(types.CorrectionResult{
		CorrectedText: unescaped,
		Errors:        []types.CorrectionError{},
	})
	if err != nil {
		return "", false
	}
	return string(salvaged), true
}
