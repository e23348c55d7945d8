package correction

import (
	"strings"
)

// Thresholds tune the malformation heuristics applied to a parsed
// response before it is accepted. Zero values select the defaults.
type Thresholds struct {
	// MinLengthRatio rejects corrected text shorter than this fraction
	// of the input, by characters or by words. Default 0.7.
	MinLengthRatio float64

	// HardMinLengthRatio is the floor below which the text is rejected
	// outright regardless of other signals. Default 0.5.
	HardMinLengthRatio float64

	// CommaDensity rejects corrected text whose comma-per-word ratio
	// exceeds this value. Default 0.5. Only applied above CommaMinWords.
	CommaDensity float64

	// CommaAbsolute rejects corrected text with more commas than this,
	// regardless of density. Default 50.
	CommaAbsolute int

	// CommaMinWords is the word count below which the comma heuristics
	// do not apply, so short fragments are never rejected for commas.
	// Default 20.
	CommaMinWords int
}

// DefaultThresholds returns the standard malformation thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinLengthRatio:     0.7,
		HardMinLengthRatio: 0.5,
		CommaDensity:       0.5,
		CommaAbsolute:      50,
		CommaMinWords:      20,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MinLengthRatio == 0 {
		t.MinLengthRatio = d.MinLengthRatio
	}
	if t.HardMinLengthRatio == 0 {
		t.HardMinLengthRatio = d.HardMinLengthRatio
	}
	if t.CommaDensity == 0 {
		t.CommaDensity = d.CommaDensity
	}
	if t.CommaAbsolute == 0 {
		t.CommaAbsolute = d.CommaAbsolute
	}
	if t.CommaMinWords == 0 {
		t.CommaMinWords = d.CommaMinWords
	}
	return t
}

// checkMalformed inspects a parsed corrected text against the input it
// was produced from. A non-empty return names the first heuristic that
// fired; empty means the text looks intact.
func (t Thresholds) checkMalformed(input, corrected string) string {
	trimmed := strings.TrimSpace(corrected)
	if trimmed == "" {
		return "empty corrected text"
	}

	// Truncated generations end mid-sentence with a trailing ellipsis.
	if strings.HasSuffix(trimmed, "…") || strings.HasSuffix(trimmed, "...") {
		return "trailing ellipsis"
	}

	inputLen := len(strings.TrimSpace(input))
	if inputLen > 0 {
		ratio := float64(len(trimmed)) / float64(inputLen)
		if ratio < t.HardMinLengthRatio {
			return "corrected text under half the input length"
		}
		if ratio < t.MinLengthRatio {
			return "corrected text suspiciously shorter than input"
		}
	}

	inputWords := len(strings.Fields(input))
	correctedWords := len(strings.Fields(trimmed))
	if inputWords > 0 && float64(correctedWords)/float64(inputWords) < t.MinLengthRatio {
		return "corrected text dropped too many words"
	}

	// Corrupted generations sometimes degenerate into comma runs.
	if correctedWords > t.CommaMinWords {
		commas := strings.Count(trimmed, ",")
		if commas > t.CommaAbsolute {
			return "excessive comma count"
		}
		if float64(commas)/float64(correctedWords) > t.CommaDensity {
			return "excessive comma density"
		}
	}

	// A structural leak means the model nested its JSON envelope inside
	// the corrected text itself.
	if strings.Contains(trimmed, `{"correctedText"`) || strings.Contains(trimmed, `"errors":`) {
		return "response structure leaked into corrected text"
	}

	return ""
}
