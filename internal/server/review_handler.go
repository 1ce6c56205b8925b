// Package server provides Connect RPC handlers for the review service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/session"
	"github.com/at-ishikawa/flipset/internal/validation"
)

// ReviewHandler serves the review session of one engine.
type ReviewHandler struct {
	engine     *session.Engine
	cards      flashcard.CardRepository
	categories flashcard.CategoryRepository
	validator  *validation.Validator
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(engine *session.Engine, cards flashcard.CardRepository, categories flashcard.CategoryRepository) (*ReviewHandler, error) {
	v, err := validation.New("json")
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &ReviewHandler{
		engine:     engine,
		cards:      cards,
		categories: categories,
		validator:  v,
	}, nil
}

// StartSession starts a session over the cards of the requested categories, replacing any existing one.
func (h *ReviewHandler) StartSession(
	ctx context.Context,
	req *connect.Request[StartSessionRequest],
) (*connect.Response[SessionResponse], error) {
	if err := h.validator.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	mode, err := session.ParseOrderMode(req.Msg.OrderMode)
	if err != nil {
		return nil, toConnectError(err)
	}

	s, err := h.engine.Start(ctx, req.Msg.CategoryIDs, mode)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("engine.Start() > %w", err))
	}
	if s == nil {
		return connect.NewResponse(&SessionResponse{NoCards: true}), nil
	}
	return h.sessionResponse(ctx)
}

// GetSession returns the current session. All fields are null without a session.
func (h *ReviewHandler) GetSession(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	return h.sessionResponse(ctx)
}

func (h *ReviewHandler) MarkCorrect(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	if _, err := h.engine.MarkCorrect(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("engine.MarkCorrect() > %w", err))
	}
	return h.sessionResponse(ctx)
}

func (h *ReviewHandler) MarkWrong(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	if _, err := h.engine.MarkWrong(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("engine.MarkWrong() > %w", err))
	}
	return h.sessionResponse(ctx)
}

func (h *ReviewHandler) SkipCard(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	if _, err := h.engine.Skip(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("engine.Skip() > %w", err))
	}
	return h.sessionResponse(ctx)
}

func (h *ReviewHandler) ResetSession(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	if _, err := h.engine.Reset(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("engine.Reset() > %w", err))
	}
	return h.sessionResponse(ctx)
}

func (h *ReviewHandler) EndSession(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	if err := h.engine.End(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("engine.End() > %w", err))
	}
	return connect.NewResponse(&SessionResponse{}), nil
}

// DeleteCard deletes a card from the store and then from the session.
func (h *ReviewHandler) DeleteCard(
	ctx context.Context,
	req *connect.Request[DeleteCardRequest],
) (*connect.Response[SessionResponse], error) {
	if err := h.validator.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := h.cards.Delete(ctx, req.Msg.CardID); err != nil {
		return nil, toConnectError(fmt.Errorf("cards.Delete(%s) > %w", req.Msg.CardID, err))
	}
	if _, err := h.engine.RemoveCard(ctx, req.Msg.CardID); err != nil && !errors.Is(err, session.ErrNoSession) {
		return nil, toConnectError(fmt.Errorf("engine.RemoveCard(%s) > %w", req.Msg.CardID, err))
	}
	return h.sessionResponse(ctx)
}

// RefreshCurrentCard fetches the current card again, for example after it was edited.
func (h *ReviewHandler) RefreshCurrentCard(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[SessionResponse], error) {
	card, err := h.engine.RefreshCurrentCard(ctx)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("engine.RefreshCurrentCard() > %w", err))
	}
	return connect.NewResponse(&SessionResponse{
		Session:     h.engine.Session(),
		Progress:    h.engine.Progress(),
		CurrentCard: card,
	}), nil
}

// ListCategories returns the categories to choose from, Uncategorized first.
func (h *ReviewHandler) ListCategories(
	ctx context.Context,
	_ *connect.Request[EmptyRequest],
) (*connect.Response[ListCategoriesResponse], error) {
	categories, err := h.categories.FindAll(ctx)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("categories.FindAll() > %w", err))
	}
	return connect.NewResponse(&ListCategoriesResponse{Categories: categories}), nil
}

func (h *ReviewHandler) sessionResponse(ctx context.Context) (*connect.Response[SessionResponse], error) {
	card, err := h.engine.CurrentCard(ctx)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("engine.CurrentCard() > %w", err))
	}
	return connect.NewResponse(&SessionResponse{
		Session:     h.engine.Session(),
		Progress:    h.engine.Progress(),
		CurrentCard: card,
	}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoCategories),
		errors.Is(err, session.ErrInvalidOrderMode):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrSessionComplete):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, flashcard.ErrCardNotFound),
		errors.Is(err, flashcard.ErrCategoryNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		slog.Default().Error("review request failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
