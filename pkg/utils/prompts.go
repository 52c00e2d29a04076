package utils

import (
	"fmt"
	"os"
	"strings"
)

// LoadPrompt reads a prompt text file, trimming surrounding whitespace
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadPromptWithFallback returns the prompt at filePath, or fallback when the
// path is empty, unreadable, or blank
func LoadPromptWithFallback(filePath, fallback string) string {
	if filePath == "" {
		return fallback
	}

	content, err := LoadPrompt(filePath)
	if err != nil || content == "" {
		return fallback
	}
	return content
}
