package llm

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client for the OpenAI chat-completions API.
type OpenAIClient struct {
	client oai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := oai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client: client,
		config: cfg,
	}, nil
}

// Complete sends a chat-completion request and returns the reply text.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	modelName := c.config.GetModel(req.Role)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for role %s", req.Role)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.timeout())
	defer cancel()

	var messages []oai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, oai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, oai.UserMessage(req.UserContent))

	params := oai.ChatCompletionNewParams{
		Model:       shared.ChatModel(modelName),
		Messages:    messages,
		Temperature: param.NewOpt(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &TransientError{Op: "openai chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &TransientError{Op: "openai chat completion", Err: fmt.Errorf("empty choices in response")}
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name for a role.
func (c *OpenAIClient) Model(role Role) string {
	return c.config.GetModel(role)
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() error {
	return nil
}
