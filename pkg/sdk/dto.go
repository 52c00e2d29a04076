package sdk

import (
	"encoding/json"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// CredentialHeader carries the user's model API token on message requests
const CredentialHeader = "X-Provider-Token"

// Event names sent on the message stream
const (
	EventToken   = "token"   // TokenEvent, one per streamed token
	EventDone    = "done"    // Turn, the recorded exchange
	EventError   = "error"   // ErrorEvent, the exchange failed and was dropped
	EventWarning = "warning" // ErrorEvent, the exchange was not attempted
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a JSON string
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err error) ApiResponse[any] {
	resp := ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

/** Requests */

// PostMessageRequest represents the request body for sending a message to a session
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

/** Responses */

// Health describes the running backend and its model profile
type Health struct {
	Profile  string `json:"profile"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Session is a chat session with its transcript
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Turns   []Turn   `json:"turns"`
	Bubbles []Bubble `json:"bubbles,omitempty"`
}

// Turn is one recorded human/AI exchange
type Turn struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Human     string    `json:"human"`
	AI        string    `json:"ai"`
}

// Bubble is one rendered chat message
type Bubble struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SearchResult is a transcript turn matching an admin search
type SearchResult struct {
	SessionID string    `json:"session_id"`
	TurnID    uint      `json:"turn_id"`
	Human     string    `json:"human"`
	AI        string    `json:"ai"`
	CreatedAt time.Time `json:"created_at"`
}

/** Stream events */

// TokenEvent carries one streamed token
type TokenEvent struct {
	Text string `json:"text"`
}

// ErrorEvent carries a warning or error message
type ErrorEvent struct {
	Message string `json:"message"`
}
