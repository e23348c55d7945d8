// Package detect identifies the language of a text sample with a single
// cheap model call.
package detect

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/types"
)

const (
	// sampleLength bounds how much text the classifier sees. A few
	// hundred characters is plenty to tell French from English.
	sampleLength = 500

	maxTokens = 10
)

const systemPrompt = `You are a language detector. The user message contains a text sample. Respond with exactly one word: "fr" if the text is in French, "en" if it is in English. Respond with nothing else.`

// Detector classifies text language.
type Detector struct {
	llm llm.Client
}

func New(client llm.Client) *Detector {
	return &Detector{llm: client}
}

// Detect returns the language of text, defaulting to French whenever
// the model cannot be reached or answers something unexpected.
func (d *Detector) Detect(ctx context.Context, text string) types.Language {
	sample := text
	if len(sample) > sampleLength {
		sample = sample[:sampleLength]
	}

	raw, err := d.llm.Complete(ctx, llm.Request{
		Role:         llm.RoleCheap,
		SystemPrompt: systemPrompt,
		UserContent:  sample,
		MaxTokens:    maxTokens,
		Temperature:  0,
	})
	if err != nil {
		log.Warn().Err(err).Str("component", "detect").Msg("language detection failed, defaulting to French")
		return types.LanguageFrench
	}

	answer := types.Language(strings.ToLower(strings.Trim(strings.TrimSpace(raw), `"'.`)))
	if !answer.Valid() {
		log.Warn().Str("component", "detect").Str("answer", raw).Msg("unexpected detection answer, defaulting to French")
		return types.LanguageFrench
	}
	return answer
}
