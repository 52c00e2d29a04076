package session

import (
	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/gin-gonic/gin"
)

// Register routes for the chat session module
func RegisterRoutes(g *gin.RouterGroup, pipeline *chat.Pipeline) {
	controller := NewController(pipeline)

	// Create base group for chat routes
	group := g.Group("/chat")

	// Session management routes
	group.POST("/sessions", controller.CreateSession)             // Start a new session
	group.GET("/sessions/:uuid", controller.GetSession)           // Get a session and its transcript
	group.POST("/sessions/:uuid/message", controller.PostMessage) // Stream a reply to a new message
	group.DELETE("/sessions/:uuid", controller.DeleteSession)     // End a session
}
