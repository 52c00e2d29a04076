package transcript

import (
	"time"

	"github.com/google/uuid"
)

// Session is one browser conversation and its ordered transcript
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;index"`

	Turns []*Turn `json:"turns" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for GORM
func (*Session) TableName() string {
	return "chat_sessions"
}

// Turn is one human input paired with the AI response to it
type Turn struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	SessionID uuid.UUID `json:"session_id" gorm:"type:char(36);not null;index"`
	Human     string    `json:"human" gorm:"column:human;type:text;not null"`
	AI        string    `json:"ai" gorm:"column:ai;type:text;not null"`
}

// TableName specifies the database table name for GORM
func (*Turn) TableName() string {
	return "chat_turns"
}

// Len returns the number of turns in the session
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Turns)
}

// SearchResult is a transcript turn matching a search query
type SearchResult struct {
	SessionID uuid.UUID `json:"session_id"`
	TurnID    uint      `json:"turn_id"`
	Human     string    `json:"human"`
	AI        string    `json:"ai"`
	CreatedAt time.Time `json:"created_at"`
}

// newSearchResult converts a matching turn
func newSearchResult(turn *Turn) *SearchResult {
	return &SearchResult{
		SessionID: turn.SessionID,
		TurnID:    turn.ID,
		Human:     turn.Human,
		AI:        turn.AI,
		CreatedAt: turn.CreatedAt,
	}
}
