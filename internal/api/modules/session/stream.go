package session

import (
	"errors"
	"log"
	"net/http"

	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// PostMessage handles POST requests carrying a new human message. Once the
// session is found the reply is an event stream: token events while the model
// generates, then exactly one done, error or warning event.
func (ctl *Controller) PostMessage(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	// Parse request body
	var req sdk.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	if _, err := ctl.pipeline.Store().GetSession(c.Request.Context(), id); err != nil {
		c.JSON(sdk.NewErrorResponse(statusFor(err), "Session not found", err).AsGinResponse())
		return
	}

	sink := newEventSink(c)
	turn, err := ctl.pipeline.Exchange(c.Request.Context(), id, c.GetHeader(sdk.CredentialHeader), req.Content, sink)

	switch {
	case errors.Is(err, chat.ErrMissingCredential), errors.Is(err, chat.ErrEmptyInput):
		sink.send(sdk.EventWarning, sdk.ErrorEvent{Message: err.Error()})

	case err != nil:
		sink.send(sdk.EventError, sdk.ErrorEvent{Message: err.Error()})

	default:
		sink.send(sdk.EventDone, toSDKTurn(turn))
	}
}

// eventSink writes streamed tokens to the client as Server-Sent Events
type eventSink struct {
	c *gin.Context
}

// newEventSink commits the event stream headers
func newEventSink(c *gin.Context) *eventSink {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	return &eventSink{c: c}
}

// WriteToken sends one token event. A gone client aborts the exchange
func (s *eventSink) WriteToken(token string) error {
	if err := s.c.Request.Context().Err(); err != nil {
		return err
	}

	s.send(sdk.EventToken, sdk.TokenEvent{Text: token})
	return nil
}

// send writes a single named event and flushes it
func (s *eventSink) send(event string, data any) {
	if s.c.Request.Context().Err() != nil {
		log.Printf("[CHAT]: Client left before %s event was sent", event)
		return
	}

	s.c.SSEvent(event, data)
	s.c.Writer.Flush()
}
