package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/flipset/internal/config"
)

//go:generate mockgen -source=store.go -destination=../mocks/session/mock_store.go -package=mock_session

// Store persists the single session slot.
type Store interface {
	// Load returns the stored session, or nil when the slot is empty.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}

// NewStoreFromConfig creates the store selected by the configuration.
// The returned function releases the resources the store owns.
func NewStoreFromConfig(cfg config.SessionConfig, db *sqlx.DB) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.SessionStoreFile, "":
		return NewFileStore(cfg.File), noop, nil
	case config.SessionStoreDatabase:
		if db == nil {
			return nil, nil, fmt.Errorf("session store %q requires a database connection", cfg.Store)
		}
		return NewDBStore(db, cfg.SlotKey), noop, nil
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.SlotKey), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}

func encodeSession(s *Session) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(session) > %w", err)
	}
	return payload, nil
}

// decodeSession decodes and validates a stored session.
func decodeSession(payload []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	// Keep every list non-nil so later saves encode [] rather than null.
	return s.clone(), nil
}
