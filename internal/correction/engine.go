// Package correction implements the core correction pipeline: a
// submitted text is sanitized, checked against the cache, screened by
// the security sentinel, corrected by the primary model with retry and
// repair, and annotated with character positions for each error.
package correction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/zalint/text-corrector/internal/cache"
	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/position"
	"github.com/zalint/text-corrector/internal/sanitize"
	"github.com/zalint/text-corrector/internal/sentinel"
	"github.com/zalint/text-corrector/internal/types"
)

const (
	// DefaultAttempts is how many times the primary model is called
	// before the engine gives up and degrades.
	DefaultAttempts = 2

	// DefaultBackoff is the fixed pause between attempts.
	DefaultBackoff = 500 * time.Millisecond

	// Completion budget bounds. The estimate is ~1.5 tokens per input
	// character, which covers the JSON envelope and the pedagogical
	// error messages alongside the corrected text itself.
	minCompletionTokens = 500
	maxCompletionTokens = 4000
)

// Config carries the tunable parts of the engine. Zero values select
// the defaults.
type Config struct {
	Attempts   int
	Backoff    time.Duration
	Thresholds Thresholds
}

// Engine runs the correction pipeline. It is safe for concurrent use;
// concurrent identical requests are collapsed into a single model call.
type Engine struct {
	llm        llm.Client
	store      cache.Store
	sentinel   *sentinel.Sentinel
	attempts   int
	backoff    time.Duration
	thresholds Thresholds
	group      singleflight.Group
}

// NewEngine builds an engine. store may be nil to disable caching and
// sent may be nil to disable the sentinel screening stage.
func NewEngine(client llm.Client, store cache.Store, sent *sentinel.Sentinel, cfg Config) *Engine {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &Engine{
		llm:        client,
		store:      store,
		sentinel:   sent,
		attempts:   cfg.Attempts,
		backoff:    cfg.Backoff,
		thresholds: cfg.Thresholds.withDefaults(),
	}
}

// Correct runs the full pipeline for one text. Degraded results carry
// the input text verbatim with a single advisory error; they are
// reported as success but never cached.
func (e *Engine) Correct(ctx context.Context, text string, language types.Language, opts types.Options) (*types.CorrectionResult, error) {
	key := cache.Key(text, language, opts)
	if e.store != nil {
		if cached, ok := e.store.Get(ctx, key); ok {
			return cached, nil
		}
	}

	// The shared call is detached from the first caller's cancellation,
	// so a canceled caller cannot poison the result for followers on
	// the same key. The model client's own request timeout still bounds
	// the detached work.
	ch := e.group.DoChan(key, func() (interface{}, error) {
		return e.correct(context.WithoutCancel(ctx), key, text, language, opts)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.CorrectionResult), nil
	}
}

func (e *Engine) correct(ctx context.Context, key, text string, language types.Language, opts types.Options) (*types.CorrectionResult, error) {
	clean := sanitize.Sanitize(text)
	if err := sanitize.Validate(clean); err != nil {
		return nil, err
	}

	verdict := sentinel.Passthrough(clean)
	if e.sentinel != nil {
		verdict = e.sentinel.Analyze(ctx, clean, language)
	}
	working := verdict.CleanedText

	req := llm.Request{
		Role:         llm.RolePrimary,
		SystemPrompt: buildSystemPrompt(language, opts),
		UserContent:  working,
		MaxTokens:    completionBudget(len(working)),
		Temperature:  0,
	}

	var lastErr error
	sawResponse := false
	for attempt := 1; attempt <= e.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.backoff):
			}
		}

		raw, err := e.llm.Complete(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			log.Warn().Err(err).Str("component", "correction").Int("attempt", attempt).
				Msg("correction call failed")
			continue
		}

		result, err := e.parse(raw, working)
		if err != nil {
			sawResponse = true
			lastErr = err
			log.Warn().Err(err).Str("component", "correction").Int("attempt", attempt).
				Msg("correction response rejected")
			continue
		}

		result.Errors = position.Resolve(text, result.Errors)
		if e.store != nil {
			e.store.Put(ctx, key, result)
		}
		return result, nil
	}

	if !sawResponse {
		return nil, fmt.Errorf("correction model unavailable: %w", lastErr)
	}

	log.Error().Err(lastErr).Str("component", "correction").
		Msg("all correction attempts produced unusable output, degrading")
	return &types.CorrectionResult{
		CorrectedText: working,
		Errors:        []types.CorrectionError{syntheticFallbackError(language)},
		Degraded:      true,
	}, nil
}

// rawControlChars matches control bytes that are illegal inside JSON
// string values and that models occasionally emit verbatim.
var rawControlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

// parse turns a raw model reply into a validated result, applying the
// repair strategies in order when the reply does not parse as-is.
func (e *Engine) parse(raw, input string) (*types.CorrectionResult, error) {
	doc := llm.CleanJSONBlock(raw)
	doc = rawControlChars.ReplaceAllString(doc, "")

	var result types.CorrectionResult
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		repaired := ""
		for _, strategy := range repairStrategies {
			candidate, ok := strategy.apply(doc)
			if !ok {
				continue
			}
			result = types.CorrectionResult{}
			if err := json.Unmarshal([]byte(candidate), &result); err != nil {
				continue
			}
			log.Warn().Str("component", "correction").Str("strategy", strategy.name).
				Msg("repaired corrupted model response")
			repaired = candidate
			break
		}
		if repaired == "" {
			return nil, &MalformedResponseError{Reason: "unparseable JSON"}
		}
		doc = repaired
	}

	if err := validateStructure(doc); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error()}
	}
	if reason := e.thresholds.checkMalformed(input, result.CorrectedText); reason != "" {
		return nil, &MalformedResponseError{Reason: reason}
	}

	if result.Errors == nil {
		result.Errors = []types.CorrectionError{}
	}
	return &result, nil
}

// completionBudget sizes the completion cap for a given input length.
func completionBudget(inputChars int) int {
	budget := inputChars * 3 / 2
	if budget < minCompletionTokens {
		return minCompletionTokens
	}
	if budget > maxCompletionTokens {
		return maxCompletionTokens
	}
	return budget
}
