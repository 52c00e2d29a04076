package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqlStore persists transcripts with GORM
type SqlStore struct {
	db *gorm.DB
}

// NewSqlStore opens a store on the given dialector and migrates its tables
func NewSqlStore(dialector gorm.Dialector) (*SqlStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&Session{}, &Turn{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &SqlStore{db: db}, nil
}

// NewMySqlStore opens a MySQL backed store
func NewMySqlStore(cfg mysql.Config) (*SqlStore, error) {
	cfg.ParseTime = true
	return NewSqlStore(gormmysql.Open(cfg.FormatDSN()))
}

// NewSqliteStore opens a SQLite backed store at path
func NewSqliteStore(path string) (*SqlStore, error) {
	store, err := NewSqlStore(sqlite.Open(path))
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer
	sqlDB, err := store.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return store, nil
}

// CreateSession creates a new empty session
func (s *SqlStore) CreateSession(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:    uuid.New(),
		Turns: []*Turn{},
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession retrieves a session with its turns in insertion order
func (s *SqlStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var session Session
	result := s.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&session, "id = ?", sessionID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", result.Error)
	}

	if session.Turns == nil {
		session.Turns = []*Turn{}
	}

	return &session, nil
}

// AppendTurn adds a turn to the end of the transcript and touches the session
func (s *SqlStore) AppendTurn(ctx context.Context, sessionID uuid.UUID, human, ai string) (*Turn, error) {
	turn := &Turn{
		SessionID: sessionID,
		Human:     human,
		AI:        ai,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Session{}).Where("id = ?", sessionID).Update("updated_at", time.Now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}

		return tx.Create(turn).Error
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	return turn, nil
}

// DeleteSession ends a session and deletes its transcript
func (s *SqlStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&Turn{}).Error; err != nil {
			return fmt.Errorf("failed to delete session turns: %w", err)
		}

		result := tx.Where("id = ?", sessionID).Delete(&Session{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}

		return nil
	})
}

// ExpireSessions deletes every session last active before idleBefore
func (s *SqlStore) ExpireSessions(ctx context.Context, idleBefore time.Time) (int, error) {
	var ids []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Session{}).Where("updated_at < ?", idleBefore.UTC()).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("session_id IN ?", ids).Delete(&Turn{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&Session{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expire sessions: %w", err)
	}

	return len(ids), nil
}

// SearchTranscripts finds turns whose human or AI text contains query, newest first
func (s *SqlStore) SearchTranscripts(ctx context.Context, query string) ([]*SearchResult, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var turns []*Turn
	result := s.db.WithContext(ctx).
		Where("LOWER(human) LIKE ? ESCAPE '!' OR LOWER(ai) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("created_at DESC").Order("id DESC").
		Limit(MaxSearchResults).
		Find(&turns)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", result.Error)
	}

	results := make([]*SearchResult, 0, len(turns))
	for _, turn := range turns {
		results = append(results, newSearchResult(turn))
	}

	return results, nil
}

// likeEscaper makes LIKE wildcards in a search query match literally. '!' is
// the escape character because MySQL reads a backslash literal as an escape
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// escapeLike escapes s for use inside a LIKE pattern with ESCAPE '!'
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Close closes the database connection
func (s *SqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
