package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/flipset/internal/database"
)

// DBStore keeps the session as a JSON payload in the session_slots table.
type DBStore struct {
	db      *sqlx.DB
	slotKey string
	now     func() time.Time
}

// NewDBStore creates a DBStore using the row identified by slotKey.
func NewDBStore(db *sqlx.DB, slotKey string) *DBStore {
	return &DBStore{
		db:      db,
		slotKey: slotKey,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *DBStore) Load(ctx context.Context) (*Session, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind("SELECT payload FROM session_slots WHERE slot_key = ?"), s.slotKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(session_slots) > %w", err)
	}
	return decodeSession([]byte(payload))
}

func (s *DBStore) Save(ctx context.Context, session *Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM session_slots WHERE slot_key = ?"), s.slotKey); err != nil {
			return fmt.Errorf("tx.ExecContext(delete session_slots) > %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO session_slots (slot_key, payload, updated_at) VALUES (?, ?, ?)"),
			s.slotKey, string(payload), s.now()); err != nil {
			return fmt.Errorf("tx.ExecContext(insert session_slots) > %w", err)
		}
		return nil
	})
}

func (s *DBStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM session_slots WHERE slot_key = ?"), s.slotKey); err != nil {
		return fmt.Errorf("db.ExecContext(delete session_slots) > %w", err)
	}
	return nil
}
