package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ethanbaker/chatbot/pkg/sdk"
	"github.com/ethanbaker/chatbot/pkg/utils"
)

func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())

	// Flags override the loaded config
	baseURL := flag.String("url", "", "chatbot backend URL (CHATBOT_URL)")
	token := flag.String("token", "", "model provider API token (PROVIDER_TOKEN)")
	flag.Parse()

	if *baseURL != "" {
		cfg.Set("CHATBOT_URL", *baseURL)
	}
	if *token != "" {
		cfg.Set("PROVIDER_TOKEN", *token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := sdk.NewClientFromConfig(cfg)

	if err := startInteractiveSession(ctx, client, cfg.Get("PROVIDER_TOKEN")); err != nil {
		log.Fatalf("[COMMANDLINE]: %v", err)
	}
}

// startInteractiveSession runs a chat loop against the backend until 'exit' or EOF
func startInteractiveSession(ctx context.Context, client *sdk.Client, token string) error {
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend is not reachable: %w", err)
	}

	// Create a single session on startup for the entire conversation
	session, err := client.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := client.DeleteSession(context.Background(), session.ID); err != nil {
			log.Printf("[COMMANDLINE]: Failed to end session: %v", err)
		}
	}()

	fmt.Printf("Chatbot (%s) started. Type 'exit' to quit.\n", health.Profile)
	for _, bubble := range session.Bubbles {
		fmt.Printf("AI: %s\n", bubble.Text)
	}

	// Create scanner for reading user input
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		fmt.Print("AI: ")
		_, err := client.SendMessage(ctx, session.ID, token, input, func(chunk string) {
			fmt.Print(chunk)
		})
		fmt.Println()

		if errors.Is(err, context.Canceled) {
			return nil
		}
		if sdk.IsWarning(err) {
			fmt.Printf("Warning: %v\n", err)
			continue
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}

	return scanner.Err()
}
