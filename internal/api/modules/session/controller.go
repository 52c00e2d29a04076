package session

import (
	"errors"
	"net/http"

	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller serves the session routes
type Controller struct {
	pipeline *chat.Pipeline
}

// NewController creates a controller backed by the chat pipeline
func NewController(pipeline *chat.Pipeline) *Controller {
	return &Controller{pipeline: pipeline}
}

// CreateSession handles POST requests to start a new session
func (ctl *Controller) CreateSession(c *gin.Context) {
	session, err := ctl.pipeline.Store().CreateSession(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to create session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session created successfully", ctl.toSDKSession(session)).AsGinResponse())
}

// GetSession handles GET requests to retrieve a session and its rendered transcript
func (ctl *Controller) GetSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	session, err := ctl.pipeline.Store().GetSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Session not found", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session retrieved successfully", ctl.toSDKSession(session)).AsGinResponse())
}

// DeleteSession handles DELETE requests to end a session
func (ctl *Controller) DeleteSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := ctl.pipeline.Store().DeleteSession(c.Request.Context(), id); err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Failed to delete session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse[any]("Session deleted successfully", nil).AsGinResponse())
}

// parseSessionID reads the :uuid parameter, answering 400 when it is malformed
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid session ID format", err).AsGinResponse())
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps store errors to HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, transcript.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Helper method to convert a transcript session to an sdk session
func (ctl *Controller) toSDKSession(session *transcript.Session) sdk.Session {
	resp := sdk.Session{
		ID:        session.ID.String(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Turns:     make([]sdk.Turn, 0, session.Len()),
	}

	for _, turn := range session.Turns {
		resp.Turns = append(resp.Turns, toSDKTurn(turn))
	}

	for _, bubble := range ctl.pipeline.Render(session) {
		resp.Bubbles = append(resp.Bubbles, sdk.Bubble{Role: string(bubble.Role), Text: bubble.Text})
	}

	return resp
}

// Helper method to convert a transcript turn to an sdk turn
func toSDKTurn(turn *transcript.Turn) sdk.Turn {
	return sdk.Turn{
		ID:        turn.ID,
		CreatedAt: turn.CreatedAt,
		Human:     turn.Human,
		AI:        turn.AI,
	}
}
