package chat

import (
	"github.com/ethanbaker/chatbot/pkg/llm"
)

// PromptTemplate lays out the context sent to the model: the system message,
// the conversation history, then the new human input
type PromptTemplate struct {
	SystemPrompt string
}

// NewPromptTemplate creates a template with the given system prompt
func NewPromptTemplate(systemPrompt string) *PromptTemplate {
	if systemPrompt == "" {
		systemPrompt = llm.DefaultSystemPrompt
	}
	return &PromptTemplate{SystemPrompt: systemPrompt}
}

// Format renders the template for the given history and input
func (p *PromptTemplate) Format(history *Memory, input string) []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: p.SystemPrompt}}
	if history != nil {
		messages = append(messages, history.messages...)
	}
	return append(messages, llm.Message{Role: llm.RoleHuman, Content: input})
}
