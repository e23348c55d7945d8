package detect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalint/text-corrector/internal/llm"
	"github.com/zalint/text-corrector/internal/llm/mock"
	"github.com/zalint/text-corrector/internal/types"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     types.Language
	}{
		{"french", "fr", types.LanguageFrench},
		{"english", "en", types.LanguageEnglish},
		{"padded answer", "  en\n", types.LanguageEnglish},
		{"quoted answer", `"fr"`, types.LanguageFrench},
		{"uppercase answer", "FR", types.LanguageFrench},
		{"chatty answer defaults to french", "The text appears to be English.", types.LanguageFrench},
		{"empty answer defaults to french", "", types.LanguageFrench},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mock.Client{Responses: []string{tt.response}}
			d := New(client)
			assert.Equal(t, tt.want, d.Detect(context.Background(), "Bonjour tout le monde."))
		})
	}
}

func TestDetect_CallFailureDefaultsToFrench(t *testing.T) {
	client := &mock.Client{Err: errors.New("backend down")}
	d := New(client)
	assert.Equal(t, types.LanguageFrench, d.Detect(context.Background(), "Hello there."))
}

func TestDetect_CallShape(t *testing.T) {
	client := &mock.Client{Responses: []string{"fr"}}
	d := New(client)
	d.Detect(context.Background(), strings.Repeat("a", 2*sampleLength))

	require.Equal(t, 1, client.CallCount())
	req := client.Calls[0].Req
	assert.Equal(t, llm.RoleCheap, req.Role)
	assert.Equal(t, maxTokens, req.MaxTokens)
	assert.Equal(t, float64(0), req.Temperature)
	assert.Len(t, req.UserContent, sampleLength, "long inputs are sampled, not sent whole")
}
