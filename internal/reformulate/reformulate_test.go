package reformulate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/llm/mock"
	"github.com/zalint/text-corrector/internal/sanitize"
	"github.com/zalint/text-corrector/internal/types"
)

func TestReformulate(t *testing.T) {
	client := &mock.Client{Responses: []string{
		"Nous vous prions de bien vouloir examiner notre proposition.",
		"La reformulation respecte le sens et adopte un registre soutenu.",
	}}
	r := New(client)

	result, err := r.Reformulate(context.Background(), "Regarde notre proposition stp.", types.LanguageFrench, "soutenu")
	require.NoError(t, err)
	assert.Equal(t, "Nous vous prions de bien vouloir examiner notre proposition.", result.ReformulatedText)
	assert.Equal(t, "La reformulation respecte le sens et adopte un registre soutenu.", result.Feedback)

	require.Equal(t, 2, client.CallCount())
	assert.Equal(t, llm.RolePrimary, client.Calls[0].Req.Role)
	assert.Contains(t, client.Calls[0].Req.SystemPrompt, "soutenu")
	assert.Equal(t, llm.RoleCheap, client.Calls[1].Req.Role)
	assert.Contains(t, client.Calls[1].Req.UserContent, "Regarde notre proposition stp.")
}

func TestReformulate_ReviewFailureKeepsRewrite(t *testing.T) {
	calls := 0
	client := &flaky{
		complete: func(req llm.Request) (string, error) {
			calls++
			if req.Role == llm.RolePrimary {
				return "Please review our proposal.", nil
			}
			return "", errors.New("backend down")
		},
	}
	r := New(client)

	result, err := r.Reformulate(context.Background(), "Check out our proposal plz.", types.LanguageEnglish, "formal")
	require.NoError(t, err, "a failed review must not discard the rewrite")
	assert.Equal(t, "Please review our proposal.", result.ReformulatedText)
	assert.Empty(t, result.Feedback)
	assert.Equal(t, 2, calls)
}

func TestReformulate_PrimaryFailureIsAnError(t *testing.T) {
	client := &mock.Client{Err: errors.New("backend down")}
	r := New(client)

	_, err := r.Reformulate(context.Background(), "Check out our proposal.", types.LanguageEnglish, "formal")
	require.Error(t, err)
}

func TestReformulate_RejectsInvalidInput(t *testing.T) {
	client := &mock.Client{}
	r := New(client)

	_, err := r.Reformulate(context.Background(), "ab", types.LanguageFrench, "soutenu")
	require.Error(t, err)
	var verr *sanitize.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, client.CallCount())
}

// flaky lets a test vary behavior per request role.
type flaky struct {
	complete func(req llm.Request) (string, error)
}

func (f *flaky) Complete(_ context.Context, req llm.Request) (string, error) {
	return f.complete(req)
}

func (f *flaky) Model(role llm.Role) string { return "flaky-" + string(role) }
func (f *flaky) Close() error               { return nil }
