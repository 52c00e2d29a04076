package page

import (
	"embed"
	"html/template"

	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the parsed page templates for gin's HTML renderer
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// RegisterRoutes registers the chat page at the engine root. secureCookie marks
// the session cookie Secure for deployments behind HTTPS
func RegisterRoutes(engine *gin.Engine, pipeline *chat.Pipeline, secureCookie bool) {
	controller := &Controller{pipeline: pipeline, secureCookie: secureCookie}

	engine.GET("/", controller.Index)
}
