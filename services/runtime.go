package services

import (
	"fmt"

	"agridash/config"
)

// NewRuntime selects the model backend named by cfg.Provider.
func NewRuntime(cfg *config.LLM) (Runtime, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiRuntime(cfg.APIKey, cfg.Model), nil
	case "huggingface":
		return NewHuggingFaceRuntime(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAIRuntime(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "ollama":
		return NewOllamaRuntime(cfg.Model, cfg.BaseURL), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
