package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultReplicateURL is the public Replicate API
const DefaultReplicateURL = "https://api.replicate.com"

// ErrPredictionCanceled is returned when Replicate cancels a prediction mid-stream
var ErrPredictionCanceled = errors.New("prediction was canceled")

// ReplicateProvider streams predictions from the Replicate HTTP API
type ReplicateProvider struct {
	client *resty.Client
}

// prediction is the subset of the Replicate prediction object we read
type prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  any    `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
		Stream string `json:"stream"`
	} `json:"urls"`
}

// apiError is the body Replicate sends on failed requests
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewReplicateProvider creates a provider talking to the Replicate API at baseURL
func NewReplicateProvider(baseURL string) *ReplicateProvider {
	if baseURL == "" {
		baseURL = DefaultReplicateURL
	}

	return &ReplicateProvider{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json"),
	}
}

// Stream creates a streaming prediction and relays its output events to the sink
func (p *ReplicateProvider) Stream(ctx context.Context, req Request, sink TokenSink) (string, error) {
	pred, err := p.createPrediction(ctx, req)
	if err != nil {
		return "", err
	}

	if pred.URLs.Stream == "" {
		return "", fmt.Errorf("prediction %s has no stream url", pred.ID)
	}

	res, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(req.Credential).
		SetHeader("Accept", "text/event-stream").
		SetHeader("Cache-Control", "no-store").
		SetDoNotParseResponse(true).
		Get(pred.URLs.Stream)
	if err != nil {
		return "", fmt.Errorf("failed to open prediction stream: %w", err)
	}

	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() >= 300 {
		b, _ := io.ReadAll(body)
		return "", fmt.Errorf("prediction stream failed: %d: %s", res.StatusCode(), decodeAPIError(b))
	}

	var buf strings.Builder
	reader := NewSSEReader(body)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return buf.String(), fmt.Errorf("prediction stream ended before done: %w", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return buf.String(), fmt.Errorf("failed to read prediction stream: %w", err)
		}

		switch event.Name {
		case "output":
			if err := deliver(&buf, sink, event.Data); err != nil {
				return buf.String(), err
			}

		case "error":
			return buf.String(), fmt.Errorf("prediction failed: %s", decodeAPIError([]byte(event.Data)))

		case "done":
			var done struct {
				Reason string `json:"reason"`
			}
			_ = json.Unmarshal([]byte(event.Data), &done)
			if done.Reason == "canceled" {
				return buf.String(), ErrPredictionCanceled
			}
			return buf.String(), nil
		}
	}
}

// createPrediction starts a prediction with streaming enabled
func (p *ReplicateProvider) createPrediction(ctx context.Context, req Request) (*prediction, error) {
	owner, name, version, err := parseReplicateModel(req.Model)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"input": map[string]any{
			"prompt":      FlattenMessages(req.Messages),
			"temperature": req.Params.Temperature,
			"max_length":  req.Params.MaxLength,
			"top_p":       req.Params.TopP,
		},
		"stream": true,
	}

	path := "/v1/predictions"
	if version != "" {
		body["version"] = version
	} else {
		path = fmt.Sprintf("/v1/models/%s/%s/predictions", owner, name)
	}

	var pred prediction
	res, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(req.Credential).
		SetBody(body).
		SetResult(&pred).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("failed to create prediction: %d: %s", res.StatusCode(), decodeAPIError(res.Body()))
	}

	if pred.Status == "failed" {
		return nil, fmt.Errorf("prediction failed: %v", pred.Error)
	}

	return &pred, nil
}

// parseReplicateModel splits "owner/name:version", "owner/name" or a bare version id
func parseReplicateModel(model string) (owner, name, version string, err error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", "", "", fmt.Errorf("model identifier is empty")
	}

	ref, version, _ := strings.Cut(model, ":")
	if !strings.Contains(ref, "/") {
		if version != "" {
			return "", "", "", fmt.Errorf("invalid model identifier %q", model)
		}
		// Bare version id
		return "", "", ref, nil
	}

	owner, name, _ = strings.Cut(ref, "/")
	if owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", "", fmt.Errorf("invalid model identifier %q", model)
	}

	return owner, name, version, nil
}

// decodeAPIError extracts a readable message from a Replicate error body
func decodeAPIError(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Title != "" {
			return apiErr.Title
		}
	}
	return strings.TrimSpace(string(body))
}

// FlattenMessages renders chat messages as a single text prompt, one
// "Speaker: text" line per message
func FlattenMessages(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		var speaker string
		switch msg.Role {
		case RoleSystem:
			speaker = "System"
		case RoleHuman:
			speaker = "Human"
		case RoleAI:
			speaker = "AI"
		default:
			speaker = string(msg.Role)
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
