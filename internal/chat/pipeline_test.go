package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider replays a fixed token sequence and records each request
type fakeProvider struct {
	tokens   []string
	failWith error
	failAt   int // fail after this many tokens when failWith is set
	requests []llm.Request
}

func (f *fakeProvider) Stream(ctx context.Context, req llm.Request, sink llm.TokenSink) (string, error) {
	f.requests = append(f.requests, req)

	var text strings.Builder
	for i, token := range f.tokens {
		if f.failWith != nil && i == f.failAt {
			return text.String(), f.failWith
		}
		text.WriteString(token)
		if err := sink.WriteToken(token); err != nil {
			return text.String(), err
		}
	}

	if f.failWith != nil {
		return text.String(), f.failWith
	}
	return text.String(), nil
}

func newTestPipeline(t *testing.T, provider llm.Provider) (*Pipeline, transcript.Store, uuid.UUID) {
	t.Helper()

	store := transcript.NewInMemoryStore()
	session, err := store.CreateSession(context.Background())
	require.NoError(t, err)

	return NewPipeline(store, provider, llm.DefaultProfile()), store, session.ID
}

func turnCount(t *testing.T, store transcript.Store, id uuid.UUID) int {
	t.Helper()
	session, err := store.GetSession(context.Background(), id)
	require.NoError(t, err)
	return session.Len()
}

func TestExchange_StreamsTokensAndRecordsTurn(t *testing.T) {
	provider := &fakeProvider{tokens: []string{"Hello", ",", " human", "."}}
	pipeline, store, id := newTestPipeline(t, provider)

	var rendered strings.Builder
	turn, err := pipeline.Exchange(context.Background(), id, "r8_token", "hi there", llm.SinkFunc(func(token string) error {
		rendered.WriteString(token)
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, "Hello, human.", rendered.String())
	assert.Equal(t, "Hello, human.", turn.AI)
	assert.Equal(t, "hi there", turn.Human)
	assert.Equal(t, 1, turnCount(t, store, id))

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "r8_token", req.Credential)
	assert.Equal(t, llm.DefaultModel, req.Model)
	assert.Equal(t, llm.Params{Temperature: 0.75, MaxLength: 1500, TopP: 1}, req.Params)
}

func TestExchange_SendsFullHistory(t *testing.T) {
	provider := &fakeProvider{tokens: []string{"ok"}}
	pipeline, _, id := newTestPipeline(t, provider)
	ctx := context.Background()

	for i := range 3 {
		_, err := pipeline.Exchange(ctx, id, "token", fmt.Sprintf("question %d", i), llm.Discard)
		require.NoError(t, err)
	}

	last := provider.requests[len(provider.requests)-1]
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: llm.DefaultSystemPrompt},
		{Role: llm.RoleHuman, Content: "question 0"},
		{Role: llm.RoleAI, Content: "ok"},
		{Role: llm.RoleHuman, Content: "question 1"},
		{Role: llm.RoleAI, Content: "ok"},
		{Role: llm.RoleHuman, Content: "question 2"},
	}, last.Messages)
}

func TestExchange_TranscriptLengthMatchesExchanges(t *testing.T) {
	provider := &fakeProvider{tokens: []string{"a", "b"}}
	pipeline, store, id := newTestPipeline(t, provider)
	ctx := context.Background()

	for n := 1; n <= 4; n++ {
		_, err := pipeline.Exchange(ctx, id, "token", fmt.Sprintf("q%d", n), nil)
		require.NoError(t, err)
		assert.Equal(t, n, turnCount(t, store, id))
	}

	// Rendering twice gives the same ordered bubbles
	session, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	first := pipeline.Render(session)
	second := pipeline.Render(session)
	assert.Equal(t, first, second)
	require.Len(t, first, 1+2*4)
	assert.Equal(t, Bubble{Role: llm.RoleAI, Text: llm.DefaultGreeting}, first[0])
	assert.Equal(t, Bubble{Role: llm.RoleHuman, Text: "q1"}, first[1])
	assert.Equal(t, Bubble{Role: llm.RoleAI, Text: "ab"}, first[2])
	assert.Equal(t, Bubble{Role: llm.RoleHuman, Text: "q4"}, first[7])
}

func TestExchange_MissingCredential(t *testing.T) {
	for _, credential := range []string{"", "   "} {
		provider := &fakeProvider{tokens: []string{"never"}}
		pipeline, store, id := newTestPipeline(t, provider)

		_, err := pipeline.Exchange(context.Background(), id, credential, "hi", llm.Discard)
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Empty(t, provider.requests, "no network call without a credential")
		assert.Equal(t, 0, turnCount(t, store, id))
	}
}

func TestExchange_EmptyInput(t *testing.T) {
	provider := &fakeProvider{tokens: []string{"never"}}
	pipeline, _, id := newTestPipeline(t, provider)

	_, err := pipeline.Exchange(context.Background(), id, "token", " \n", llm.Discard)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, provider.requests)
}

func TestExchange_ProviderErrorDropsTurn(t *testing.T) {
	boom := errors.New("model unavailable")
	provider := &fakeProvider{tokens: []string{"ok"}}
	pipeline, store, id := newTestPipeline(t, provider)
	ctx := context.Background()

	_, err := pipeline.Exchange(ctx, id, "token", "first", llm.Discard)
	require.NoError(t, err)

	// Fails before and after partial output
	for _, failAt := range []int{0, 1} {
		provider.tokens = []string{"par", "tial"}
		provider.failWith = boom
		provider.failAt = failAt

		var seen []string
		_, err = pipeline.Exchange(ctx, id, "token", "second", llm.SinkFunc(func(token string) error {
			seen = append(seen, token)
			return nil
		}))
		assert.ErrorIs(t, err, boom)
		assert.Len(t, seen, failAt)
		assert.Equal(t, 1, turnCount(t, store, id))
	}
}

func TestExchange_SinkErrorDropsTurn(t *testing.T) {
	gone := errors.New("browser disconnected")
	provider := &fakeProvider{tokens: []string{"a", "b"}}
	pipeline, store, id := newTestPipeline(t, provider)

	_, err := pipeline.Exchange(context.Background(), id, "token", "hi", llm.SinkFunc(func(string) error {
		return gone
	}))
	assert.ErrorIs(t, err, gone)
	assert.Equal(t, 0, turnCount(t, store, id))
}

func TestExchange_UnknownSession(t *testing.T) {
	provider := &fakeProvider{tokens: []string{"a"}}
	pipeline, _, _ := newTestPipeline(t, provider)

	_, err := pipeline.Exchange(context.Background(), uuid.New(), "token", "hi", llm.Discard)
	assert.ErrorIs(t, err, transcript.ErrSessionNotFound)
	assert.Empty(t, provider.requests)
}
