package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/chatbot/pkg/llm"
)

// StreamError is returned by SendMessage when the backend reports a warning
// or error event instead of a finished turn
type StreamError struct {
	Event   string
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Event, e.Message)
}

// IsWarning reports whether err is a warning event, meaning the message was never sent to the model
func IsWarning(err error) bool {
	var streamErr *StreamError
	return errors.As(err, &streamErr) && streamErr.Event == EventWarning
}

// Health reports the backend status and active model profile
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out ApiResponse[Health]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Create a new session
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var out ApiResponse[Session]
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/sessions", nil, &out); err != nil {
		return nil, err
	}

	if out.Data.ID == "" {
		return nil, fmt.Errorf("no id returned")
	}

	return &out.Data, nil
}

// Get a session by UUID
func (c *Client) GetSession(ctx context.Context, uuid string) (*Session, error) {
	path := fmt.Sprintf("/api/chat/sessions/%s", url.PathEscape(uuid))

	var out ApiResponse[Session]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	// Check for success
	switch out.Status {
	case api_types.StatusFail:
		return nil, fmt.Errorf("failed to get session: %s", out.Message)
	case api_types.StatusError:
		return nil, fmt.Errorf("error getting session (%s): %v", out.Message, out.Error)
	}

	return &out.Data, nil
}

// SendMessage sends content to a session with the user's model credential.
// onToken is called for every streamed token; the recorded turn is returned
// once the response is complete.
func (c *Client) SendMessage(ctx context.Context, uuid, credential, content string, onToken func(token string)) (*Turn, error) {
	path := fmt.Sprintf("/api/chat/sessions/%s/message", url.PathEscape(uuid))

	req, err := c.newRequest(ctx, http.MethodPost, path, &PostMessageRequest{Content: content})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if credential != "" {
		req.Header.Set(CredentialHeader, credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(http.MethodPost, path, resp); err != nil {
		return nil, err
	}

	reader := llm.NewSSEReader(resp.Body)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("stream ended without a result")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read stream: %w", err)
		}

		switch event.Name {
		case EventToken:
			var token TokenEvent
			if err := json.Unmarshal([]byte(event.Data), &token); err != nil {
				return nil, fmt.Errorf("invalid token event: %w", err)
			}
			if onToken != nil {
				onToken(token.Text)
			}

		case EventDone:
			var turn Turn
			if err := json.Unmarshal([]byte(event.Data), &turn); err != nil {
				return nil, fmt.Errorf("invalid done event: %w", err)
			}
			return &turn, nil

		case EventError, EventWarning:
			var msg ErrorEvent
			if err := json.Unmarshal([]byte(event.Data), &msg); err != nil {
				msg.Message = event.Data
			}
			return nil, &StreamError{Event: event.Name, Message: msg.Message}
		}
	}
}

// Delete an existing session by UUID
func (c *Client) DeleteSession(ctx context.Context, uuid string) error {
	path := fmt.Sprintf("/api/chat/sessions/%s", url.PathEscape(uuid))

	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// SearchTranscripts searches all live transcripts. Requires the admin API key
func (c *Client) SearchTranscripts(ctx context.Context, query string) ([]SearchResult, error) {
	path := "/api/admin/transcripts?q=" + url.QueryEscape(query)

	var out ApiResponse[[]SearchResult]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Data, nil
}
