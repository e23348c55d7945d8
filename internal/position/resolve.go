// Package position maps reported correction errors to character spans in
// the original text.
//
// The model is not contractually required to echo exact original/correction
// pairs in structured fields, so resolution falls back to mining the
// pedagogical message prose for candidate tokens. A span that cannot be
// resolved is left at 0/0, which downstream highlighting must read as
// "do not highlight".
package position

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/zalint/text-corrector/internal/types"
)

// messagePatterns extract candidate tokens from error messages, tried in
// order. Quoted substrings first, then language-specific phrasings seen
// in real model output.
var messagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`'([^']+)'`),
	regexp.MustCompile(`"([^"]+)"`),
	regexp.MustCompile(`«\s*([^»]+?)\s*»`),
	regexp.MustCompile(`La forme verbale '([^']+)'`),
	regexp.MustCompile(`Le mot '([^']+)'`),
	regexp.MustCompile(`L'expression '([^']+)'`),
	regexp.MustCompile(`utiliser '([^']+)'`),
	regexp.MustCompile(`écrire '([^']+)'`),
	regexp.MustCompile(`(?i)the word '([^']+)'`),
	regexp.MustCompile(`(?i)use '([^']+)' instead`),
	regexp.MustCompile(`\b([a-zA-ZàâäéèêëïîôöùûüÿçÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇ]{3,})\b`),
}

// Resolve populates PositionStart/PositionEnd for each error where a span
// can be determined, leaving 0/0 otherwise. The input slice is not
// modified; a new slice is returned.
func Resolve(originalText string, errs []types.CorrectionError) []types.CorrectionError {
	resolved := make([]types.CorrectionError, len(errs))
	folded := foldText(originalText)

	for i, e := range errs {
		resolved[i] = e
		start, end, ok := locate(originalText, folded, e)
		if ok {
			resolved[i].PositionStart = start
			resolved[i].PositionEnd = end
		} else {
			resolved[i].PositionStart = 0
			resolved[i].PositionEnd = 0
		}
	}
	return resolved
}

// locate runs the resolution cascade for a single error.
func locate(original string, folded *foldedText, e types.CorrectionError) (int, int, bool) {
	// Direct match on the structured original field.
	if term := strings.TrimSpace(e.Original); term != "" {
		if start, end, ok := searchInsensitive(original, term); ok {
			return start, end, true
		}
	}

	// Fall back to mining the message prose.
	for _, pattern := range messagePatterns {
		for _, match := range pattern.FindAllStringSubmatch(e.Message, -1) {
			word := strings.TrimSpace(match[1])
			if len(word) <= 2 {
				continue
			}
			if start, end, ok := searchInsensitive(original, word); ok {
				return start, end, true
			}
			if start, end, ok := folded.search(word); ok {
				return start, end, true
			}
		}
	}

	return 0, 0, false
}

// searchInsensitive finds the first case-insensitive occurrence of term
// and returns its byte span in text.
func searchInsensitive(text, term string) (int, int, bool) {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(term))
	if idx == -1 {
		return 0, 0, false
	}
	return idx, idx + len(term), true
}

// foldedText is a lowercased, diacritic-stripped view of a string that
// remembers, for every folded byte, the original byte offset it came
// from, so match spans can be reported against the original text.
type foldedText struct {
	folded  string
	offsets []int // offsets[i] = original byte offset of folded byte i
	origLen int
}

// stripMarks removes Unicode combining marks after NFD decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText builds the diacritic-insensitive view of text.
func foldText(text string) *foldedText {
	var sb strings.Builder
	var offsets []int

	for i, r := range text {
		stripped, _, err := transform.String(stripMarks, strings.ToLower(string(r)))
		if err != nil {
			stripped = strings.ToLower(string(r))
		}
		sb.WriteString(stripped)
		for range len(stripped) {
			offsets = append(offsets, i)
		}
	}

	return &foldedText{folded: sb.String(), offsets: offsets, origLen: len(text)}
}

// search looks for term (folded the same way) and maps the match back to
// original byte offsets.
func (f *foldedText) search(term string) (int, int, bool) {
	needle, _, err := transform.String(stripMarks, strings.ToLower(term))
	if err != nil {
		needle = strings.ToLower(term)
	}
	idx := strings.Index(f.folded, needle)
	if idx == -1 || len(needle) == 0 {
		return 0, 0, false
	}

	start := f.offsets[idx]
	endFolded := idx + len(needle)
	var end int
	if endFolded < len(f.offsets) {
		end = f.offsets[endFolded]
	} else {
		end = f.origLen
	}
	return start, end, true
}
