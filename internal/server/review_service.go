package server

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/session"
)

// ReviewServiceName is the fully-qualified name of the review service.
const ReviewServiceName = "flipset.v1.ReviewService"

const (
	ReviewServiceStartSessionProcedure       = "/" + ReviewServiceName + "/StartSession"
	ReviewServiceGetSessionProcedure         = "/" + ReviewServiceName + "/GetSession"
	ReviewServiceMarkCorrectProcedure        = "/" + ReviewServiceName + "/MarkCorrect"
	ReviewServiceMarkWrongProcedure          = "/" + ReviewServiceName + "/MarkWrong"
	ReviewServiceSkipCardProcedure           = "/" + ReviewServiceName + "/SkipCard"
	ReviewServiceResetSessionProcedure       = "/" + ReviewServiceName + "/ResetSession"
	ReviewServiceEndSessionProcedure         = "/" + ReviewServiceName + "/EndSession"
	ReviewServiceDeleteCardProcedure         = "/" + ReviewServiceName + "/DeleteCard"
	ReviewServiceRefreshCurrentCardProcedure = "/" + ReviewServiceName + "/RefreshCurrentCard"
	ReviewServiceListCategoriesProcedure     = "/" + ReviewServiceName + "/ListCategories"
)

// EmptyRequest is the request of procedures without arguments.
type EmptyRequest struct{}

type StartSessionRequest struct {
	CategoryIDs []string `json:"categoryIds" validate:"required,min=1,dive,required"`
	OrderMode   string   `json:"orderMode" validate:"omitempty,oneof=ordered random"`
}

type DeleteCardRequest struct {
	CardID string `json:"cardId" validate:"required"`
}

// SessionResponse is the state of the review after a procedure.
// Session, Progress and CurrentCard are null without a session.
type SessionResponse struct {
	Session     *session.Session              `json:"session"`
	Progress    *session.Progress             `json:"progress"`
	CurrentCard *flashcard.CardWithCategories `json:"currentCard"`
	// NoCards is set by StartSession when the categories hold no card.
	NoCards bool `json:"noCards,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []flashcard.CategoryWithCount `json:"categories"`
}

// NewReviewServiceHandler builds an HTTP handler serving every procedure of h.
// It returns the path to mount the handler on.
func NewReviewServiceHandler(h *ReviewHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ReviewServiceStartSessionProcedure, connect.NewUnaryHandler(ReviewServiceStartSessionProcedure, h.StartSession, opts...))
	mux.Handle(ReviewServiceGetSessionProcedure, connect.NewUnaryHandler(ReviewServiceGetSessionProcedure, h.GetSession, opts...))
	mux.Handle(ReviewServiceMarkCorrectProcedure, connect.NewUnaryHandler(ReviewServiceMarkCorrectProcedure, h.MarkCorrect, opts...))
	mux.Handle(ReviewServiceMarkWrongProcedure, connect.NewUnaryHandler(ReviewServiceMarkWrongProcedure, h.MarkWrong, opts...))
	mux.Handle(ReviewServiceSkipCardProcedure, connect.NewUnaryHandler(ReviewServiceSkipCardProcedure, h.SkipCard, opts...))
	mux.Handle(ReviewServiceResetSessionProcedure, connect.NewUnaryHandler(ReviewServiceResetSessionProcedure, h.ResetSession, opts...))
	mux.Handle(ReviewServiceEndSessionProcedure, connect.NewUnaryHandler(ReviewServiceEndSessionProcedure, h.EndSession, opts...))
	mux.Handle(ReviewServiceDeleteCardProcedure, connect.NewUnaryHandler(ReviewServiceDeleteCardProcedure, h.DeleteCard, opts...))
	mux.Handle(ReviewServiceRefreshCurrentCardProcedure, connect.NewUnaryHandler(ReviewServiceRefreshCurrentCardProcedure, h.RefreshCurrentCard, opts...))
	mux.Handle(ReviewServiceListCategoriesProcedure, connect.NewUnaryHandler(ReviewServiceListCategoriesProcedure, h.ListCategories, opts...))
	return "/" + ReviewServiceName + "/", mux
}

// ReviewServiceClient calls the review service over HTTP.
type ReviewServiceClient struct {
	startSession       *connect.Client[StartSessionRequest, SessionResponse]
	getSession         *connect.Client[EmptyRequest, SessionResponse]
	markCorrect        *connect.Client[EmptyRequest, SessionResponse]
	markWrong          *connect.Client[EmptyRequest, SessionResponse]
	skipCard           *connect.Client[EmptyRequest, SessionResponse]
	resetSession       *connect.Client[EmptyRequest, SessionResponse]
	endSession         *connect.Client[EmptyRequest, SessionResponse]
	deleteCard         *connect.Client[DeleteCardRequest, SessionResponse]
	refreshCurrentCard *connect.Client[EmptyRequest, SessionResponse]
	listCategories     *connect.Client[EmptyRequest, ListCategoriesResponse]
}

// NewReviewServiceClient creates a client for the service served at baseURL.
func NewReviewServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReviewServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &ReviewServiceClient{
		startSession:       connect.NewClient[StartSessionRequest, SessionResponse](httpClient, baseURL+ReviewServiceStartSessionProcedure, opts...),
		getSession:         connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceGetSessionProcedure, opts...),
		markCorrect:        connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceMarkCorrectProcedure, opts...),
		markWrong:          connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceMarkWrongProcedure, opts...),
		skipCard:           connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceSkipCardProcedure, opts...),
		resetSession:       connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceResetSessionProcedure, opts...),
		endSession:         connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceEndSessionProcedure, opts...),
		deleteCard:         connect.NewClient[DeleteCardRequest, SessionResponse](httpClient, baseURL+ReviewServiceDeleteCardProcedure, opts...),
		refreshCurrentCard: connect.NewClient[EmptyRequest, SessionResponse](httpClient, baseURL+ReviewServiceRefreshCurrentCardProcedure, opts...),
		listCategories:     connect.NewClient[EmptyRequest, ListCategoriesResponse](httpClient, baseURL+ReviewServiceListCategoriesProcedure, opts...),
	}
}

func (c *ReviewServiceClient) StartSession(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error) {
	return call(ctx, c.startSession, req)
}

func (c *ReviewServiceClient) GetSession(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.getSession, &EmptyRequest{})
}

func (c *ReviewServiceClient) MarkCorrect(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.markCorrect, &EmptyRequest{})
}

func (c *ReviewServiceClient) MarkWrong(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.markWrong, &EmptyRequest{})
}

func (c *ReviewServiceClient) SkipCard(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.skipCard, &EmptyRequest{})
}

func (c *ReviewServiceClient) ResetSession(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.resetSession, &EmptyRequest{})
}

func (c *ReviewServiceClient) EndSession(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.endSession, &EmptyRequest{})
}

func (c *ReviewServiceClient) DeleteCard(ctx context.Context, req *DeleteCardRequest) (*SessionResponse, error) {
	return call(ctx, c.deleteCard, req)
}

func (c *ReviewServiceClient) RefreshCurrentCard(ctx context.Context) (*SessionResponse, error) {
	return call(ctx, c.refreshCurrentCard, &EmptyRequest{})
}

func (c *ReviewServiceClient) ListCategories(ctx context.Context) (*ListCategoriesResponse, error) {
	return call(ctx, c.listCategories, &EmptyRequest{})
}

func call[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
