package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_PlainJSON(t *testing.T) {
	input := `{"correctedText": "Bonjour"}`
	assert.Equal(t, input, CleanJSONBlock(input))
}

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	input := "```json\n{\"correctedText\": \"Bonjour\"}\n```"
	assert.Equal(t, `{"correctedText": "Bonjour"}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	input := "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_FenceWithLanguageIdentifier(t *testing.T) {
	input := "```javascript\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_SurroundingWhitespace(t *testing.T) {
	input := "   \n```json\n{}\n```  \n"
	assert.Equal(t, "{}", CleanJSONBlock(input))
}

func TestCleanJSONBlock_EmptyString(t *testing.T) {
	assert.Equal(t, "", CleanJSONBlock(""))
}

func TestConfig_GetModel(t *testing.T) {
	cfg := DefaultOpenAIConfig()

	assert.Equal(t, "gpt-4", cfg.GetModel(RolePrimary))
	assert.Equal(t, "gpt-3.5-turbo", cfg.GetModel(RoleCheap))
}

func TestConfig_GetModel_FallsBackToPrimary(t *testing.T) {
	cfg := &Config{
		Provider: ProviderOpenAI,
		Models:   map[Role]string{RolePrimary: "gpt-4"},
	}

	assert.Equal(t, "gpt-4", cfg.GetModel(RoleCheap))
}

func TestConfig_WithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultOpenAIConfig()
	modified := cfg.WithModel(RoleCheap, "gpt-4o-mini")

	assert.Equal(t, "gpt-3.5-turbo", cfg.GetModel(RoleCheap))
	assert.Equal(t, "gpt-4o-mini", modified.GetModel(RoleCheap))
	assert.Equal(t, cfg.GetModel(RolePrimary), modified.GetModel(RolePrimary))
}
