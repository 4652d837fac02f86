package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"agridash/dataset"
)

// Runtime is a hosted language model: text in, text out.
type Runtime interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatResult carries either the model's answer or the reason it failed.
type ChatResult struct {
	Response string
	Error    string
}

func (r ChatResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(map[string]string{"response": r.Response})
}

// ChatRelay forwards a question about tabular data to a Runtime.
type ChatRelay struct {
	runtime Runtime
	timeout time.Duration
	log     *zap.Logger
}

func NewChatRelay(rt Runtime, timeout time.Duration, log *zap.Logger) *ChatRelay {
	return &ChatRelay{runtime: rt, timeout: timeout, log: log.Named("chat")}
}

// Ask never fails: model errors come back in ChatResult.Error so the
// dashboard can show them inline.
func (c *ChatRelay) Ask(ctx context.Context, query string, data json.RawMessage) ChatResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.runtime.Generate(ctx, BuildChatPrompt(query, data))
	if err != nil {
		var ext *dataset.ExternalServiceError
		if !errors.As(err, &ext) {
			err = &dataset.ExternalServiceError{Provider: c.runtime.Name(), Err: err}
		}
		c.log.Warn("model call failed",
			zap.String("provider", c.runtime.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return ChatResult{Error: err.Error()}
	}
	c.log.Debug("model call finished",
		zap.String("provider", c.runtime.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)))
	return ChatResult{Response: text}
}

// BuildChatPrompt embeds the records and the user's question.
func BuildChatPrompt(query string, data json.RawMessage) string {
	records := "[]"
	if len(bytes.TrimSpace(data)) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err == nil {
			records = buf.String()
		} else {
			records = string(data)
		}
	}

	var b strings.Builder
	b.WriteString("You are a data analysis assistant for the Karnataka Environmental Dashboard.\n")
	b.WriteString("Analyze the following data and answer the user's query.\n\n")
	fmt.Fprintf(&b, "Data:\n%s\n\n", records)
	fmt.Fprintf(&b, "Query:\n%s\n", query)
	return b.String()
}
