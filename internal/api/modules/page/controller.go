package page

import (
	"errors"
	"log"
	"net/http"

	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie holds the browser's session id
const SessionCookie = "chatbot_session"

// Controller serves the chat page
type Controller struct {
	pipeline     *chat.Pipeline
	secureCookie bool
}

// Index renders the chat page with the browser session's transcript, starting
// a new session when the cookie is missing or its session has ended
func (ctl *Controller) Index(c *gin.Context) {
	session, err := ctl.currentSession(c)
	if err != nil {
		log.Printf("[PAGE]: Failed to load session: %v", err)
		c.String(http.StatusInternalServerError, "Failed to start a chat session")
		return
	}

	profile := ctl.pipeline.Profile()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":           "Chatbot",
		"SessionID":       session.ID.String(),
		"CredentialLabel": profile.CredentialLabel,
		"Model":           profile.Name,
		"Bubbles":         ctl.pipeline.Render(session),
		"MissingToken":    chat.ErrMissingCredential.Error(),
	})
}

// currentSession loads the cookie's session or creates and remembers a new one
func (ctl *Controller) currentSession(c *gin.Context) (*transcript.Session, error) {
	store := ctl.pipeline.Store()
	ctx := c.Request.Context()

	if value, err := c.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(value); err == nil {
			session, err := store.GetSession(ctx, id)
			if err == nil {
				return session, nil
			}
			if !errors.Is(err, transcript.ErrSessionNotFound) {
				return nil, err
			}
		}
	}

	session, err := store.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session.ID.String(), 0, "/", "", ctl.secureCookie, true)

	return session, nil
}
