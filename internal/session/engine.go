package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/flipset/internal/flashcard"
)

//go:generate mockgen -source=engine.go -destination=../mocks/session/mock_engine.go -package=mock_session

// CardSource looks up the cards a session is built from.
type CardSource interface {
	FindByCategories(ctx context.Context, categoryIDs []string) ([]flashcard.Card, error)
	FindByID(ctx context.Context, id string) (*flashcard.CardWithCategories, error)
}

// Engine owns the single review session of a store slot.
// Every mutation is persisted before the in-memory session is replaced.
type Engine struct {
	mu      sync.Mutex
	cards   CardSource
	store   Store
	rng     *rand.Rand
	newID   func() string
	session *Session
	current *flashcard.CardWithCategories
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRand sets the random source used to shuffle rounds.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithIDGenerator sets the function generating session ids.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine creates an Engine without a session. Call Load to restore a stored one.
func NewEngine(cards CardSource, store Store, opts ...EngineOption) *Engine {
	now := uint64(time.Now().UnixNano())
	e := &Engine{
		cards: cards,
		store: store,
		rng:   rand.New(rand.NewPCG(now, now>>1)),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) shuffle(ids []string) {
	e.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// Load restores the stored session, if any.
// A corrupt slot is cleared and treated as empty.
func (e *Engine) Load(ctx context.Context) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Load(ctx)
	if errors.Is(err, ErrCorruptSession) {
		slog.Default().Warn("discarding corrupt review session", "error", err)
		if err := e.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("store.Clear() > %w", err)
		}
		s, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load() > %w", err)
	}
	e.session = s
	e.current = nil
	if s == nil {
		return nil, nil
	}
	slog.Default().Debug("review session restored",
		"session_id", s.ID,
		"round", s.CurrentRound,
		"complete", s.IsComplete)
	return s.clone(), nil
}

// Start builds a new session from the cards of the categories, replacing any existing one.
// It returns nil without touching the store when the categories hold no card.
func (e *Engine) Start(ctx context.Context, categoryIDs []string, mode OrderMode) (*Session, error) {
	if len(categoryIDs) == 0 {
		return nil, ErrNoCategories
	}
	if mode != OrderModeOrdered && mode != OrderModeRandom {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderMode, mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cards, err := e.cards.FindByCategories(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("cards.FindByCategories(%v) > %w", categoryIDs, err)
	}

	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		if !slices.Contains(ids, c.ID) {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		slog.Default().Info("no cards in the selected categories", "categories", categoryIDs)
		return nil, nil
	}

	next := &Session{
		ID:                  e.newID(),
		OriginalCardIDs:     ids,
		OrderMode:           mode,
		SelectedCategoryIDs: cloneIDs(categoryIDs),
	}
	next.reset(e.shuffle)
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	slog.Default().Info("review session started",
		"session_id", next.ID,
		"cards", len(ids),
		"order", mode)
	return next.clone(), nil
}

// MarkCorrect records the current card as answered correctly.
func (e *Engine) MarkCorrect(ctx context.Context) (*Session, error) {
	return e.answer(ctx, "correct", func(s *Session) {
		s.markCorrect(e.shuffle)
	})
}

// MarkWrong records the current card as answered wrongly, to be replayed next round.
func (e *Engine) MarkWrong(ctx context.Context) (*Session, error) {
	return e.answer(ctx, "wrong", func(s *Session) {
		s.markWrong(e.shuffle)
	})
}

// Skip moves the current card to the end of the round.
func (e *Engine) Skip(ctx context.Context) (*Session, error) {
	return e.answer(ctx, "skip", func(s *Session) {
		s.skip()
	})
}

func (e *Engine) answer(ctx context.Context, action string, apply func(*Session)) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNoSession
	}
	if e.session.IsComplete {
		return nil, ErrSessionComplete
	}

	next := e.session.clone()
	cardID := next.CurrentCardID()
	apply(next)
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}

	slog.Default().Debug("card answered",
		"session_id", next.ID,
		"card_id", cardID,
		"action", action,
		"round", next.CurrentRound,
		"complete", next.IsComplete)
	return next.clone(), nil
}

// Reset restarts the session from round 1 with every original card.
func (e *Engine) Reset(ctx context.Context) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNoSession
	}
	next := e.session.clone()
	next.reset(e.shuffle)
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return next.clone(), nil
}

// End discards the session and its stored slot.
func (e *Engine) End(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.end(ctx)
}

func (e *Engine) end(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("store.Clear() > %w", err)
	}
	if e.session != nil {
		slog.Default().Info("review session ended", "session_id", e.session.ID)
	}
	e.session = nil
	e.current = nil
	return nil
}

// RemoveCard drops a card deleted from the store out of the session.
// It returns nil once no card remains and the session has ended.
// Removing a card the session does not hold changes nothing.
func (e *Engine) RemoveCard(ctx context.Context, cardID string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNoSession
	}

	next := e.session.clone()
	changed, ended := next.removeCard(cardID, e.shuffle)
	if !changed {
		return e.session.clone(), nil
	}
	if ended {
		if err := e.end(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	slog.Default().Debug("card removed from review session",
		"session_id", next.ID,
		"card_id", cardID,
		"remaining", len(next.OriginalCardIDs))
	return next.clone(), nil
}

// CurrentCard returns the card under the current index.
// It returns nil without a session, once the session is complete, or when the card no longer exists.
func (e *Engine) CurrentCard(ctx context.Context) (*flashcard.CardWithCategories, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.session != nil && e.current.ID == e.session.CurrentCardID() {
		c := *e.current
		return &c, nil
	}
	return e.fetchCurrent(ctx)
}

// RefreshCurrentCard fetches the current card again from the card source, for example after it was edited.
func (e *Engine) RefreshCurrentCard(ctx context.Context) (*flashcard.CardWithCategories, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fetchCurrent(ctx)
}

func (e *Engine) fetchCurrent(ctx context.Context) (*flashcard.CardWithCategories, error) {
	e.current = nil
	if e.session == nil {
		return nil, nil
	}
	id := e.session.CurrentCardID()
	if id == "" {
		return nil, nil
	}

	card, err := e.cards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cards.FindByID(%s) > %w", id, err)
	}
	if card == nil {
		slog.Default().Warn("card of the review session no longer exists",
			"session_id", e.session.ID,
			"card_id", id)
		return nil, nil
	}
	e.current = card
	c := *card
	return &c, nil
}

// Progress returns the progress of the session, or nil without a session.
func (e *Engine) Progress() *Progress {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	return newProgress(e.session)
}

// Session returns a copy of the session, or nil without a session.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	return e.session.clone()
}

// HasActiveSession reports whether a session exists and is not complete.
func (e *Engine) HasActiveSession() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session != nil && !e.session.IsComplete
}

// commit persists next and adopts it. On failure the in-memory session is left unchanged.
func (e *Engine) commit(ctx context.Context, next *Session) error {
	if err := e.store.Save(ctx, next); err != nil {
		return fmt.Errorf("store.Save() > %w", err)
	}
	e.session = next
	return nil
}
