package openai

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

func TestGenerateSendsStageSettings(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"llama-3.1-8b-instant",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Billing"}}]}`))
	}))
	defer srv.Close()

	p := New(&Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "llama-3.1-8b-instant", Temperature: 0.1})
	resp, err := p.Generate(context.Background(), &agent.GenerateRequest{
		Messages: []*message.Message{message.System("classify"), message.User("I was charged twice")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Billing", resp.Text())
	assert.Equal(t, "llama-3.1-8b-instant", body["model"])
	assert.InDelta(t, 0.1, body["temperature"], 1e-9)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestGenerateRejectsNilRequest(t *testing.T) {
	p := New(DefaultConfig())
	_, err := p.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestConvertMessagesSkipsNil(t *testing.T) {
	out := ConvertMessages([]*message.Message{nil, message.User("hi")})
	assert.Len(t, out, 1)
}
