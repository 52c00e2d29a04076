package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethanbaker/chatbot/pkg/utils"
)

// Client wraps calls to the chatbot backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. apiKey is only needed for admin routes
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// No client timeout; responses stream for as long as the model generates
		httpClient: &http.Client{},
	}
}

// NewClientFromConfig creates a client from CHATBOT_URL (default
// http://localhost:$API_PORT) and API_KEY
func NewClientFromConfig(cfg *utils.Config) *Client {
	baseURL := cfg.GetWithDefault("CHATBOT_URL", "http://localhost:"+cfg.GetWithDefault("API_PORT", "8080"))
	return NewClient(baseURL, cfg.Get("API_KEY"))
}

// newRequest builds a request against the backend, encoding in as JSON when set
func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	return req, nil
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(method, path, resp); err != nil {
		return err
	}

	// If no output expected, return early
	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// checkStatus turns non-2xx responses into errors carrying the backend message
func checkStatus(method, path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	b, _ := io.ReadAll(resp.Body)

	var apiResp ApiResponse[any]
	if err := json.Unmarshal(b, &apiResp); err == nil && apiResp.Message != "" {
		if apiResp.Error != nil {
			return fmt.Errorf("[BACKEND]: '%s %s' failed: %d: %s: %v", method, path, resp.StatusCode, apiResp.Message, apiResp.Error)
		}
		return fmt.Errorf("[BACKEND]: '%s %s' failed: %d: %s", method, path, resp.StatusCode, apiResp.Message)
	}

	return fmt.Errorf("[BACKEND]: '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
}
