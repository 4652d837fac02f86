package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agridash/config"
)

type fakeRuntime struct {
	answer   string
	err      error
	prompt   string
	deadline bool
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	_, f.deadline = ctx.Deadline()
	return f.answer, f.err
}

func TestChatRelayAnswer(t *testing.T) {
	rt := &fakeRuntime{answer: "Mysuru had the most rain."}
	relay := NewChatRelay(rt, time.Second, zap.NewNop())

	res := relay.Ask(context.Background(), "Which district is wettest?", json.RawMessage(`[ {"district": "Mysuru"} ]`))
	assert.Equal(t, "Mysuru had the most rain.", res.Response)
	assert.Empty(t, res.Error)
	assert.True(t, rt.deadline)
	assert.Contains(t, rt.prompt, `[{"district":"Mysuru"}]`)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"Mysuru had the most rain."}`, string(b))
}

func TestChatRelayError(t *testing.T) {
	rt := &fakeRuntime{err: errors.New("quota exceeded")}
	relay := NewChatRelay(rt, 0, zap.NewNop())

	res := relay.Ask(context.Background(), "q", nil)
	assert.Empty(t, res.Response)
	assert.Contains(t, res.Error, "quota exceeded")
	assert.Contains(t, res.Error, "fake")
	assert.False(t, rt.deadline)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Contains(t, body, "error")
	assert.NotContains(t, body, "response")
}

func TestBuildChatPrompt(t *testing.T) {
	p := BuildChatPrompt("Trend of ragi yield?", json.RawMessage("[\n  {\"year\": 2019}\n]"))
	assert.True(t, strings.HasPrefix(p, "You are a data analysis assistant for the Karnataka Environmental Dashboard.\n"))
	assert.Contains(t, p, "Data:\n[{\"year\":2019}]\n\n")
	assert.True(t, strings.HasSuffix(p, "Query:\nTrend of ragi yield?\n"))

	assert.Contains(t, BuildChatPrompt("q", nil), "Data:\n[]\n")
}

func TestOpenAIRuntime(t *testing.T) {
	var gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Rainfall rose."}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	rt := NewOpenAIRuntime("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	text, err := rt.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Rainfall rose.", text)
	assert.Equal(t, "gpt-4o-mini", gotModel)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestOpenAIRuntimeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	}))
	defer srv.Close()

	relay := NewChatRelay(NewOpenAIRuntime("sk-test", "gpt-4o-mini", srv.URL+"/v1"), time.Second, zap.NewNop())
	res := relay.Ask(context.Background(), "q", nil)
	assert.Contains(t, res.Error, "rate limited")
}

func TestRuntimesRequireCredentials(t *testing.T) {
	for _, rt := range []Runtime{
		NewGeminiRuntime("", "gemini-pro"),
		NewHuggingFaceRuntime("", "mistralai/Mistral-7B-Instruct-v0.2"),
		NewOpenAIRuntime("", "gpt-4o-mini", ""),
	} {
		_, err := rt.Generate(context.Background(), "q")
		assert.Error(t, err, rt.Name())
	}
}

func TestNewRuntime(t *testing.T) {
	for _, provider := range []string{"gemini", "huggingface", "openai", "ollama"} {
		rt, err := NewRuntime(&config.LLM{Provider: provider, Model: config.DefaultModel(provider)})
		require.NoError(t, err)
		assert.Equal(t, provider, rt.Name())
	}

	_, err := NewRuntime(&config.LLM{Provider: "bard"})
	assert.Error(t, err)
}
