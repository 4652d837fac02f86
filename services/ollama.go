package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaRuntime calls a local Ollama server through langchaingo.
type OllamaRuntime struct {
	model     string
	serverURL string
}

func NewOllamaRuntime(model, serverURL string) *OllamaRuntime {
	return &OllamaRuntime{model: model, serverURL: serverURL}
}

func (o *OllamaRuntime) Name() string { return "ollama" }

func (o *OllamaRuntime) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []ollama.Option{ollama.WithModel(o.model)}
	if o.serverURL != "" {
		opts = append(opts, ollama.WithServerURL(o.serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return "", fmt.Errorf("create ollama client: %w", err)
	}
	text, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return text, nil
}
