package health

import (
	"github.com/ethanbaker/chatbot/pkg/llm"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, profile *llm.Profile) {
	g.GET("/health", getStatus(profile))
}
