package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-test","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func TestOpenAIProvider_Stream(t *testing.T) {
	var (
		mu   sync.Mutex
		auth string
		body map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Unlock()

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, chunk("Hel"))
		fmt.Fprint(w, chunk("lo"))
		fmt.Fprint(w, chunk(" there"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL + "/v1/")

	var tokens []string
	text, err := provider.Stream(context.Background(), Request{
		Credential: "sk-test",
		Model:      "gpt-test",
		Params:     Params{Temperature: 0.5, MaxLength: 64, TopP: 1},
		Messages: []Message{
			{Role: RoleSystem, Content: "be nice"},
			{Role: RoleHuman, Content: "hi"},
			{Role: RoleAI, Content: "hello"},
			{Role: RoleHuman, Content: "again"},
		},
	}, SinkFunc(func(token string) error {
		tokens = append(tokens, token)
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo", " there"}, tokens)
	assert.Equal(t, "Hello there", text)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, true, body["stream"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 4)

	var roles []string
	for _, m := range messages {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
}

func TestOpenAIProvider_Error(t *testing.T) {
	calls := 0
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	_, err := NewOpenAIProvider(server.URL+"/v1/").Stream(context.Background(), Request{
		Credential: "bad",
		Model:      "gpt-test",
		Messages:   []Message{{Role: RoleHuman, Content: "hi"}},
	}, nil)
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "requests are not retried")
}
