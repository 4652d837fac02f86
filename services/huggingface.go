package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/go-huggingface"
)

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}

func boolPtr(b bool) *bool {
	return &b
}

// HuggingFaceRuntime calls the Hugging Face inference API text generation task.
type HuggingFaceRuntime struct {
	token string
	model string
}

func NewHuggingFaceRuntime(token, model string) *HuggingFaceRuntime {
	return &HuggingFaceRuntime{token: token, model: model}
}

func (h *HuggingFaceRuntime) Name() string { return "huggingface" }

func (h *HuggingFaceRuntime) Generate(ctx context.Context, prompt string) (string, error) {
	if h.token == "" {
		return "", errors.New("huggingface API token is not configured")
	}
	ic := huggingface.NewInferenceClient(h.token)

	req := &huggingface.TextGenerationRequest{
		Inputs: prompt,
		Model:  h.model,
		Parameters: huggingface.TextGenerationParameters{
			MaxNewTokens:   intPtr(800),
			Temperature:    float64Ptr(0.4), // answers should stay close to the data
			TopK:           intPtr(50),
			TopP:           float64Ptr(0.95),
			ReturnFullText: boolPtr(false),
		},
	}

	res, err := ic.TextGeneration(ctx, req)
	if err != nil {
		return "", fmt.Errorf("text generation error: %w", err)
	}
	if len(res) == 0 {
		return "", errors.New("no response from model")
	}

	text := strings.TrimSpace(res[0].GeneratedText)
	if text == "" {
		return "", errors.New("model returned an empty answer")
	}
	return text, nil
}
