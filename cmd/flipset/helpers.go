package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/flipset/internal/config"
	"github.com/at-ishikawa/flipset/internal/database"
	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/session"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Connect() > %w", err)
	}
	return db, nil
}

// app holds what every command working on cards or sessions needs.
type app struct {
	cfg        *config.Config
	db         *sqlx.DB
	cards      *flashcard.DBCardRepository
	categories *flashcard.DBCategoryRepository
	engine     *session.Engine
	closeStore func() error
}

// openApp connects to the database and restores the stored review session.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := session.NewStoreFromConfig(cfg.Session, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session.NewStoreFromConfig() > %w", err)
	}

	cards := flashcard.NewDBCardRepository(db)
	engine := session.NewEngine(cards, store)
	if _, err := engine.Load(ctx); err != nil {
		_ = closeStore()
		_ = db.Close()
		return nil, fmt.Errorf("engine.Load() > %w", err)
	}

	return &app{
		cfg:        cfg,
		db:         db,
		cards:      cards,
		categories: flashcard.NewDBCategoryRepository(db),
		engine:     engine,
		closeStore: closeStore,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.closeStore(), a.db.Close())
}

// removeFromSession drops deleted cards from the active review session, if any.
func (a *app) removeFromSession(ctx context.Context, cardIDs []string) error {
	for _, id := range cardIDs {
		if _, err := a.engine.RemoveCard(ctx, id); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return nil
			}
			return fmt.Errorf("engine.RemoveCard(%s) > %w", id, err)
		}
		slog.Default().Debug("removed deleted card from the review session", "card_id", id)
	}
	return nil
}
