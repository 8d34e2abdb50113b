package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetpotato0/ticket-resolver/agent"
	"github.com/sweetpotato0/ticket-resolver/message"
)

func TestGenerateUsesDefaultModel(t *testing.T) {
	var body map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"llama-3.1-8b-instant",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Technical"}}]}`))
	}))
	defer srv.Close()

	p := New(&Config{APIKey: "gsk-test", BaseURL: srv.URL + "/", MaxTokens: 50, Temperature: 0.1})
	resp, err := p.Generate(context.Background(), &agent.GenerateRequest{
		Messages: []*message.Message{message.User("The app crashes on start")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Technical", resp.Text())
	assert.Equal(t, "Bearer gsk-test", auth)
	assert.Equal(t, DefaultModel, body["model"])
	assert.InDelta(t, 0.1, body["temperature"], 1e-9)
}

func TestGenerateRejectsNilRequest(t *testing.T) {
	p := New(nil)
	_, err := p.Generate(context.Background(), nil)
	assert.Error(t, err)
}
