package transcript

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxSearchResults caps the number of hits returned by SearchTranscripts
const MaxSearchResults = 50

// ErrSessionNotFound is returned when a session does not exist or has ended
var ErrSessionNotFound = errors.New("session not found")

// Store persists session transcripts for the lifetime of a session.
// SearchTranscripts matches the query literally and folds ASCII case; folding
// of other letters is up to the backend.
type Store interface {
	CreateSession(ctx context.Context) (*Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	AppendTurn(ctx context.Context, sessionID uuid.UUID, human, ai string) (*Turn, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	ExpireSessions(ctx context.Context, idleBefore time.Time) (int, error)
	SearchTranscripts(ctx context.Context, query string) ([]*SearchResult, error)
	Close() error
}

// InMemoryStore keeps transcripts in process memory
type InMemoryStore struct {
	sessions map[uuid.UUID]*Session
	nextTurn uint
	mu       sync.RWMutex
}

// NewInMemoryStore creates a new in-memory transcript store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// CreateSession creates a new empty session
func (s *InMemoryStore) CreateSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Turns:     []*Turn{},
	}
	s.sessions[session.ID] = session

	return copySession(session), nil
}

// GetSession returns a copy of the session and its turns
func (s *InMemoryStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return copySession(session), nil
}

// AppendTurn adds a turn to the end of the transcript
func (s *InMemoryStore) AppendTurn(ctx context.Context, sessionID uuid.UUID, human, ai string) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	s.nextTurn++
	now := time.Now().UTC()
	turn := &Turn{
		ID:        s.nextTurn,
		CreatedAt: now,
		SessionID: sessionID,
		Human:     human,
		AI:        ai,
	}

	session.Turns = append(session.Turns, turn)
	session.UpdatedAt = now

	copied := *turn
	return &copied, nil
}

// DeleteSession ends a session and discards its transcript
func (s *InMemoryStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(s.sessions, sessionID)
	return nil
}

// ExpireSessions ends every session last active before idleBefore
func (s *InMemoryStore) ExpireSessions(ctx context.Context, idleBefore time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(idleBefore) {
			delete(s.sessions, id)
			count++
		}
	}

	return count, nil
}

// SearchTranscripts finds turns whose human or AI text contains query, newest first
func (s *InMemoryStore) SearchTranscripts(ctx context.Context, query string) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)

	var results []*SearchResult
	for _, session := range s.sessions {
		for _, turn := range session.Turns {
			if strings.Contains(strings.ToLower(turn.Human), needle) || strings.Contains(strings.ToLower(turn.AI), needle) {
				results = append(results, newSearchResult(turn))
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].TurnID > results[j].TurnID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}

	return results, nil
}

// Close is a no-op for the in-memory store
func (s *InMemoryStore) Close() error {
	return nil
}

// copySession returns a deep copy so callers never share turn slices with the store
func copySession(session *Session) *Session {
	copied := *session
	copied.Turns = make([]*Turn, len(session.Turns))
	for i, turn := range session.Turns {
		t := *turn
		copied.Turns[i] = &t
	}
	return &copied
}
