// Package session implements the review session engine and its persistence.
package session

import (
	"fmt"
	"slices"
)

// OrderMode decides how the cards of each round are ordered.
type OrderMode string

const (
	OrderModeOrdered OrderMode = "ordered"
	OrderModeRandom  OrderMode = "random"
)

// ParseOrderMode parses an order mode. An empty string means ordered.
func ParseOrderMode(s string) (OrderMode, error) {
	switch OrderMode(s) {
	case "", OrderModeOrdered:
		return OrderModeOrdered, nil
	case OrderModeRandom:
		return OrderModeRandom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderMode, s)
	}
}

// Session is the persisted state of a review session.
//
// Cards before CurrentIndex in CurrentRoundCards have been answered this round and sit in one of the buckets.
// Cards from CurrentIndex onwards are pending. WrongBucket holds the cards to replay next round.
type Session struct {
	ID                  string    `json:"id"`
	OriginalCardIDs     []string  `json:"originalCardIds"`
	CurrentRound        int       `json:"currentRound"`
	CurrentIndex        int       `json:"currentIndex"`
	OrderMode           OrderMode `json:"orderMode"`
	CorrectBucket       []string  `json:"correctBucket"`
	WrongBucket         []string  `json:"wrongBucket"`
	CurrentRoundCards   []string  `json:"currentRoundCards"`
	IsComplete          bool      `json:"isComplete"`
	SelectedCategoryIDs []string  `json:"selectedCategoryIds"`
}

// CurrentCardID returns the id of the card under the current index, or "" when there is none.
func (s *Session) CurrentCardID() string {
	if s.IsComplete || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.CurrentRoundCards) {
		return ""
	}
	return s.CurrentRoundCards[s.CurrentIndex]
}

// Validate checks the structural invariants a stored session must hold.
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrCorruptSession)
	}
	if s.CurrentRound < 1 {
		return fmt.Errorf("%w: round %d", ErrCorruptSession, s.CurrentRound)
	}
	if s.OrderMode != OrderModeOrdered && s.OrderMode != OrderModeRandom {
		return fmt.Errorf("%w: order mode %q", ErrCorruptSession, s.OrderMode)
	}
	if s.CurrentIndex < 0 {
		return fmt.Errorf("%w: index %d", ErrCorruptSession, s.CurrentIndex)
	}
	if len(s.CurrentRoundCards) > 0 && s.CurrentIndex >= len(s.CurrentRoundCards) {
		return fmt.Errorf("%w: index %d out of round of %d cards", ErrCorruptSession, s.CurrentIndex, len(s.CurrentRoundCards))
	}
	if !s.IsComplete && len(s.CurrentRoundCards) == 0 {
		return fmt.Errorf("%w: empty round in progress", ErrCorruptSession)
	}
	return nil
}

func (s *Session) clone() *Session {
	c := *s
	c.OriginalCardIDs = cloneIDs(s.OriginalCardIDs)
	c.CorrectBucket = cloneIDs(s.CorrectBucket)
	c.WrongBucket = cloneIDs(s.WrongBucket)
	c.CurrentRoundCards = cloneIDs(s.CurrentRoundCards)
	c.SelectedCategoryIDs = cloneIDs(s.SelectedCategoryIDs)
	return &c
}

// cloneIDs copies ids, turning nil into an empty slice so it encodes as [].
func cloneIDs(ids []string) []string {
	result := make([]string, len(ids))
	copy(result, ids)
	return result
}

// shuffler reorders ids in place.
type shuffler func(ids []string)

func (s *Session) roundOrder(ids []string, shuffle shuffler) []string {
	result := cloneIDs(ids)
	if s.OrderMode == OrderModeRandom {
		shuffle(result)
	}
	return result
}

// startRound replays the wrong bucket as the next round.
func (s *Session) startRound(shuffle shuffler) {
	s.CurrentRound++
	s.CurrentIndex = 0
	s.CurrentRoundCards = s.roundOrder(s.WrongBucket, shuffle)
	s.WrongBucket = []string{}
}

func (s *Session) markCorrect(shuffle shuffler) {
	s.CorrectBucket = append(s.CorrectBucket, s.CurrentRoundCards[s.CurrentIndex])
	if s.CurrentIndex+1 < len(s.CurrentRoundCards) {
		s.CurrentIndex++
		return
	}
	if len(s.WrongBucket) == 0 {
		s.IsComplete = true
		return
	}
	s.startRound(shuffle)
}

// markWrong never completes the session: the card it adds always makes the next round non-empty.
func (s *Session) markWrong(shuffle shuffler) {
	s.WrongBucket = append(s.WrongBucket, s.CurrentRoundCards[s.CurrentIndex])
	if s.CurrentIndex+1 < len(s.CurrentRoundCards) {
		s.CurrentIndex++
		return
	}
	s.startRound(shuffle)
}

func (s *Session) skip() {
	if len(s.CurrentRoundCards) < 2 {
		return
	}
	id := s.CurrentRoundCards[s.CurrentIndex]
	rest := slices.Delete(cloneIDs(s.CurrentRoundCards), s.CurrentIndex, s.CurrentIndex+1)
	s.CurrentRoundCards = append(rest, id)
}

func (s *Session) reset(shuffle shuffler) {
	s.CurrentRound = 1
	s.CurrentIndex = 0
	s.CorrectBucket = []string{}
	s.WrongBucket = []string{}
	s.CurrentRoundCards = s.roundOrder(s.OriginalCardIDs, shuffle)
	s.IsComplete = false
}

// removeCard drops cardID from every list.
// The index never moves back onto a card already answered this round, so the round ends
// as soon as no pending card is left.
// It reports whether the session held the card and whether no card remains.
func (s *Session) removeCard(cardID string, shuffle shuffler) (changed, ended bool) {
	if !slices.Contains(s.OriginalCardIDs, cardID) &&
		!slices.Contains(s.CurrentRoundCards, cardID) &&
		!slices.Contains(s.CorrectBucket, cardID) &&
		!slices.Contains(s.WrongBucket, cardID) {
		return false, false
	}

	pos := slices.Index(s.CurrentRoundCards, cardID)
	s.OriginalCardIDs = without(s.OriginalCardIDs, cardID)
	s.CorrectBucket = without(s.CorrectBucket, cardID)
	s.WrongBucket = without(s.WrongBucket, cardID)
	s.CurrentRoundCards = without(s.CurrentRoundCards, cardID)
	if pos >= 0 && pos < s.CurrentIndex {
		s.CurrentIndex--
	}

	if len(s.OriginalCardIDs) == 0 {
		return true, true
	}
	if s.IsComplete {
		s.clampIndex()
		return true, false
	}

	// No pending card is left in this round once the index runs past its end.
	if s.CurrentIndex >= len(s.CurrentRoundCards) {
		if len(s.WrongBucket) > 0 {
			s.startRound(shuffle)
		} else {
			s.IsComplete = true
		}
	}
	s.clampIndex()
	return true, false
}

func (s *Session) clampIndex() {
	if s.CurrentIndex >= len(s.CurrentRoundCards) {
		s.CurrentIndex = max(len(s.CurrentRoundCards)-1, 0)
	}
}

func without(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}
