package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIRuntime calls an OpenAI compatible chat completions endpoint.
type OpenAIRuntime struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIRuntime builds the runtime; baseURL may be empty for api.openai.com.
func NewOpenAIRuntime(apiKey, model, baseURL string) *OpenAIRuntime {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIRuntime{client: openai.NewClientWithConfig(cfg), apiKey: apiKey, model: model}
}

func (o *OpenAIRuntime) Name() string { return "openai" }

func (o *OpenAIRuntime) Generate(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", errors.New("openai API key is not configured")
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion")
	}
	return resp.Choices[0].Message.Content, nil
}
