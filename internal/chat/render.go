package chat

import (
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/llm"
)

// Bubble is one message shown in the chat window
type Bubble struct {
	Role llm.Role `json:"role"`
	Text string   `json:"text"`
}

// Bubbles renders a transcript for display: the greeting, then a human and an
// AI bubble for every turn in order
func Bubbles(session *transcript.Session, greeting string) []Bubble {
	bubbles := make([]Bubble, 0, 1+2*session.Len())
	if greeting != "" {
		bubbles = append(bubbles, Bubble{Role: llm.RoleAI, Text: greeting})
	}

	if session == nil {
		return bubbles
	}

	for _, turn := range session.Turns {
		bubbles = append(bubbles,
			Bubble{Role: llm.RoleHuman, Text: turn.Human},
			Bubble{Role: llm.RoleAI, Text: turn.AI},
		)
	}
	return bubbles
}
