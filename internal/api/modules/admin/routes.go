package admin

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/gin-gonic/gin"
)

// Register routes for the admin module. Every route requires the X-API-KEY header
func RegisterRoutes(g *gin.RouterGroup, store transcript.Store, apiKey string) {
	controller := &Controller{store: store}

	// Create base group for admin routes
	group := g.Group("/admin")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(makeApiKeyValidator(apiKey)))

	group.GET("/transcripts", controller.SearchTranscripts) // Search live transcripts
}

// makeApiKeyValidator checks if the provided API key is valid
func makeApiKeyValidator(apiKey string) func(key string) bool {
	return func(key string) bool {
		return key != "" && apiKey == key
	}
}
