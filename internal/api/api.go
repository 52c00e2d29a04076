package api

import (
	"fmt"
	"log"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/ethanbaker/chatbot/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	admin_module "github.com/ethanbaker/chatbot/internal/api/modules/admin"
	health_module "github.com/ethanbaker/chatbot/internal/api/modules/health"
	page_module "github.com/ethanbaker/chatbot/internal/api/modules/page"
	session_module "github.com/ethanbaker/chatbot/internal/api/modules/session"
)

// NewEngine builds the gin engine serving the chat page and the API
func NewEngine(cfg *utils.Config, pipeline *chat.Pipeline) *gin.Engine {
	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS", "*"),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", sdk.CredentialHeader, "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.SetHTMLTemplate(page_module.Templates())

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup, pipeline.Profile())
	session_module.RegisterRoutes(baseGroup, pipeline)

	if cfg.Has("API_KEY") {
		admin_module.RegisterRoutes(baseGroup, pipeline.Store(), cfg.Get("API_KEY"))
	} else {
		log.Println("[API-MAIN]: API_KEY not set, admin routes are disabled")
	}

	page_module.RegisterRoutes(engine, pipeline, cfg.GetBoolWithDefault("SESSION_COOKIE_SECURE", false))

	return engine
}

// Start serves the engine on API_PORT until the server fails
func Start(cfg *utils.Config, pipeline *chat.Pipeline) error {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	engine := NewEngine(cfg, pipeline)

	log.Printf("[API-MAIN]: Serving model profile %q on :%s", pipeline.Profile().Name, port)
	if err := engine.Run(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
