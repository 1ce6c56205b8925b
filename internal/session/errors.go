package session

import "errors"

var (
	ErrNoSession        = errors.New("no active review session")
	ErrSessionComplete  = errors.New("review session is already complete")
	ErrCorruptSession   = errors.New("stored review session is corrupt")
	ErrInvalidOrderMode = errors.New("invalid order mode")
	ErrNoCategories     = errors.New("at least one category is required")
)
