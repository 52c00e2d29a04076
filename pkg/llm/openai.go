package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIProvider streams chat completions from an OpenAI compatible endpoint
type OpenAIProvider struct {
	baseURL string
}

// NewOpenAIProvider creates a provider for the given base URL. An empty URL uses
// the SDK default
func NewOpenAIProvider(baseURL string) *OpenAIProvider {
	return &OpenAIProvider{baseURL: baseURL}
}

// Stream sends the conversation as chat messages and relays content deltas to the sink
func (p *OpenAIProvider) Stream(ctx context.Context, req Request, sink TokenSink) (string, error) {
	// The credential belongs to the request, so each call gets its own client
	opts := []option.RequestOption{
		option.WithAPIKey(req.Credential),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: openai.Float(req.Params.Temperature),
		TopP:        openai.Float(req.Params.TopP),
	}
	if req.Params.MaxLength > 0 {
		params.MaxTokens = openai.Int(int64(req.Params.MaxLength))
	}

	stream := client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var buf strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}

		if err := deliver(&buf, sink, chunk.Choices[0].Delta.Content); err != nil {
			return buf.String(), err
		}
	}

	if err := stream.Err(); err != nil {
		return buf.String(), fmt.Errorf("chat completion stream failed: %w", err)
	}

	return buf.String(), nil
}

// toOpenAIMessages maps chat messages onto the SDK message union
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleAI:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
