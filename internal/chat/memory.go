package chat

import (
	"github.com/ethanbaker/chatbot/internal/stores/transcript"
	"github.com/ethanbaker/chatbot/pkg/llm"
)

// Memory is the conversation buffer replayed into every prompt
type Memory struct {
	messages []llm.Message
}

// NewMemory creates an empty conversation buffer
func NewMemory() *Memory {
	return &Memory{}
}

// SaveContext records one exchange as a human message followed by an AI message
func (m *Memory) SaveContext(human, ai string) {
	m.messages = append(m.messages,
		llm.Message{Role: llm.RoleHuman, Content: human},
		llm.Message{Role: llm.RoleAI, Content: ai},
	)
}

// Replay saves every turn of a transcript, oldest first
func (m *Memory) Replay(turns []*transcript.Turn) *Memory {
	for _, turn := range turns {
		m.SaveContext(turn.Human, turn.AI)
	}
	return m
}

// Messages returns a copy of the buffered history
func (m *Memory) Messages() []llm.Message {
	return append([]llm.Message(nil), m.messages...)
}
