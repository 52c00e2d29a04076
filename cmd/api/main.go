package main

import (
	"log"
	"time"

	"github.com/ethanbaker/chatbot/internal/api"
	"github.com/ethanbaker/chatbot/internal/chat"
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/llm"
	"github.com/ethanbaker/chatbot/pkg/utils"
)

// Start the API server
func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	// Initialize the transcript store
	store, err := transcript.Open(cfg)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize transcript store: %v", err)
	}
	defer store.Close()

	// End idle sessions in the background
	if ttl := cfg.GetMinutesWithDefault("SESSION_TTL", 60*time.Minute); ttl > 0 {
		reaper, err := transcript.NewReaper(store, ttl, cfg.GetWithDefault("SESSION_SWEEP_SPEC", "@every 5m"))
		if err != nil {
			log.Fatalf("[API-MAIN]: Failed to initialize session reaper: %v", err)
		}
		reaper.Start()
		defer reaper.Stop()
	}

	// Resolve the model profile and its provider
	profile, err := llm.ResolveProfile(cfg)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to resolve model profile: %v", err)
	}

	provider, err := llm.NewProvider(profile, cfg)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to initialize model provider: %v", err)
	}

	pipeline := chat.NewPipeline(store, provider, profile)

	// Start
	if err := api.Start(cfg, pipeline); err != nil {
		log.Fatalf("[API-MAIN]: %v", err)
	}
}
