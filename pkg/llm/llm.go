package llm

import (
	"context"
	"strings"
)

// Role identifies who authored a chat message
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

// Message is a single entry of the context sent to the model
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params are the generation parameters passed to the hosted model
type Params struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxLength   int     `json:"max_length" yaml:"max_length"`
	TopP        float64 `json:"top_p" yaml:"top_p"`
}

// Request is one streamed completion call
type Request struct {
	Credential string    // API token supplied by the user for this call
	Model      string    // Provider specific model identifier
	Params     Params    // Generation parameters
	Messages   []Message // Full conversation context, oldest first
}

// TokenSink receives response text as the model generates it
type TokenSink interface {
	WriteToken(token string) error
}

// SinkFunc adapts a function to the TokenSink interface
type SinkFunc func(token string) error

// WriteToken calls f(token)
func (f SinkFunc) WriteToken(token string) error {
	return f(token)
}

// Discard is a TokenSink that drops every token
var Discard TokenSink = SinkFunc(func(string) error { return nil })

// Provider streams a completion from a hosted model. Every token is handed to
// the sink as it arrives and the concatenation of all tokens is returned.
// A sink error aborts the stream and is returned as is.
type Provider interface {
	Stream(ctx context.Context, req Request, sink TokenSink) (string, error)
}

// deliver forwards a token to the sink and records it in the buffer
func deliver(buf *strings.Builder, sink TokenSink, token string) error {
	if token == "" {
		return nil
	}

	buf.WriteString(token)
	if sink == nil {
		return nil
	}
	return sink.WriteToken(token)
}
