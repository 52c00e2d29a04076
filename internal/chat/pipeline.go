package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/llm"
	"github.com/google/uuid"
)

var (
	// ErrMissingCredential is returned when no API token accompanies a message.
	// Nothing is sent to the provider in that case
	ErrMissingCredential = errors.New("NO API TOKEN IS PROVIDED")

	// ErrEmptyInput is returned for blank messages
	ErrEmptyInput = errors.New("message is empty")
)

// Pipeline runs one chat exchange: replay the transcript, call the model,
// stream the answer, record the turn
type Pipeline struct {
	store    transcript.Store
	provider llm.Provider
	profile  *llm.Profile
	template *PromptTemplate
}

// NewPipeline creates a pipeline over the given store and provider
func NewPipeline(store transcript.Store, provider llm.Provider, profile *llm.Profile) *Pipeline {
	if profile == nil {
		profile = llm.DefaultProfile()
	}

	return &Pipeline{
		store:    store,
		provider: provider,
		profile:  profile,
		template: NewPromptTemplate(profile.SystemPrompt),
	}
}

// Profile returns the model profile used for exchanges
func (p *Pipeline) Profile() *llm.Profile {
	return p.profile
}

// Store returns the transcript store
func (p *Pipeline) Store() transcript.Store {
	return p.store
}

// Render returns the chat bubbles for a session, starting with the greeting
func (p *Pipeline) Render(session *transcript.Session) []Bubble {
	return Bubbles(session, p.profile.Greeting)
}

// Exchange sends input with the full session history to the model and streams
// the answer into sink. The turn is appended to the transcript only when the
// whole response was received; on any error the transcript is left unchanged.
func (p *Pipeline) Exchange(ctx context.Context, sessionID uuid.UUID, credential, input string, sink llm.TokenSink) (*transcript.Turn, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrMissingCredential
	}

	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	session, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history := NewMemory().Replay(session.Turns)
	req := llm.Request{
		Credential: credential,
		Model:      p.profile.Model,
		Params:     p.profile.Params,
		Messages:   p.template.Format(history, input),
	}

	buf := &streamBuffer{sink: sink}
	if _, err := p.provider.Stream(ctx, req, buf); err != nil {
		log.Printf("[CHAT]: Exchange failed for session %s: %v", sessionID, err)
		return nil, err
	}

	turn, err := p.store.AppendTurn(ctx, sessionID, input, buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	return turn, nil
}

// streamBuffer accumulates the streamed response while forwarding each token
type streamBuffer struct {
	text strings.Builder
	sink llm.TokenSink
}

// WriteToken appends the token and passes it on
func (b *streamBuffer) WriteToken(token string) error {
	b.text.WriteString(token)
	if b.sink == nil {
		return nil
	}
	return b.sink.WriteToken(token)
}

// String returns everything received so far
func (b *streamBuffer) String() string {
	return b.text.String()
}
