package session

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noShuffle([]string) {}

func reverse(ids []string) {
	slices.Reverse(ids)
}

func newOrderedSession(ids ...string) *Session {
	s := &Session{
		ID:                  "session-1",
		OriginalCardIDs:     ids,
		OrderMode:           OrderModeOrdered,
		SelectedCategoryIDs: []string{"cat-1"},
	}
	s.reset(noShuffle)
	return s
}

func TestParseOrderMode(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderMode
		wantErr bool
	}{
		{input: "", want: OrderModeOrdered},
		{input: "ordered", want: OrderModeOrdered},
		{input: "random", want: OrderModeRandom},
		{input: "shuffled", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrderMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrderMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Session)
		wantErr bool
	}{
		{name: "valid", modify: func(*Session) {}},
		{name: "missing id", modify: func(s *Session) { s.ID = "" }, wantErr: true},
		{name: "round zero", modify: func(s *Session) { s.CurrentRound = 0 }, wantErr: true},
		{name: "unknown order mode", modify: func(s *Session) { s.OrderMode = "sorted" }, wantErr: true},
		{name: "negative index", modify: func(s *Session) { s.CurrentIndex = -1 }, wantErr: true},
		{name: "index past the round", modify: func(s *Session) { s.CurrentIndex = 3 }, wantErr: true},
		{name: "empty round in progress", modify: func(s *Session) { s.CurrentRoundCards = []string{} }, wantErr: true},
		{
			name: "empty round once complete",
			modify: func(s *Session) {
				s.CurrentRoundCards = []string{}
				s.IsComplete = true
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newOrderedSession("A", "B", "C")
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCorruptSession)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSession_JSONFieldNames(t *testing.T) {
	s := newOrderedSession("A")

	payload, err := json.Marshal(s)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "session-1",
		"originalCardIds": ["A"],
		"currentRound": 1,
		"currentIndex": 0,
		"orderMode": "ordered",
		"correctBucket": [],
		"wrongBucket": [],
		"currentRoundCards": ["A"],
		"isComplete": false,
		"selectedCategoryIds": ["cat-1"]
	}`, string(payload))
}

func TestSession_Clone(t *testing.T) {
	s := newOrderedSession("A", "B")
	c := s.clone()
	c.CurrentRoundCards[0] = "Z"
	c.CorrectBucket = append(c.CorrectBucket, "A")

	assert.Equal(t, []string{"A", "B"}, s.CurrentRoundCards)
	assert.Empty(t, s.CorrectBucket)
}

func TestSession_MarkCorrect(t *testing.T) {
	t.Run("advances within the round", func(t *testing.T) {
		s := newOrderedSession("A", "B")
		s.markCorrect(noShuffle)

		assert.Equal(t, 1, s.CurrentIndex)
		assert.Equal(t, []string{"A"}, s.CorrectBucket)
		assert.False(t, s.IsComplete)
	})

	t.Run("completes when the round ends without wrong answers", func(t *testing.T) {
		s := newOrderedSession("A")
		s.markCorrect(noShuffle)

		assert.True(t, s.IsComplete)
		assert.Equal(t, 0, s.CurrentIndex)
		assert.Equal(t, []string{"A"}, s.CurrentRoundCards)
		assert.Equal(t, 1, s.CurrentRound)
	})

	t.Run("replays wrong answers in a new round", func(t *testing.T) {
		s := newOrderedSession("A", "B", "C")
		s.OrderMode = OrderModeRandom
		s.markWrong(reverse)
		s.markWrong(reverse)
		s.markCorrect(reverse)

		assert.Equal(t, 2, s.CurrentRound)
		assert.Equal(t, 0, s.CurrentIndex)
		assert.Equal(t, []string{"B", "A"}, s.CurrentRoundCards)
		assert.Equal(t, []string{}, s.WrongBucket)
		assert.Equal(t, []string{"C"}, s.CorrectBucket)
	})
}

func TestSession_MarkWrong(t *testing.T) {
	t.Run("advances within the round", func(t *testing.T) {
		s := newOrderedSession("A", "B")
		s.markWrong(noShuffle)

		assert.Equal(t, 1, s.CurrentIndex)
		assert.Equal(t, []string{"A"}, s.WrongBucket)
	})

	t.Run("never completes at the end of a round", func(t *testing.T) {
		s := newOrderedSession("A")
		s.markWrong(noShuffle)

		assert.False(t, s.IsComplete)
		assert.Equal(t, 2, s.CurrentRound)
		assert.Equal(t, []string{"A"}, s.CurrentRoundCards)
		assert.Equal(t, []string{}, s.WrongBucket)
	})
}

func TestSession_Skip(t *testing.T) {
	tests := []struct {
		name      string
		round     []string
		index     int
		wantRound []string
	}{
		{name: "first card", round: []string{"A", "B", "C"}, index: 0, wantRound: []string{"B", "C", "A"}},
		{name: "middle card", round: []string{"A", "B", "C"}, index: 1, wantRound: []string{"A", "C", "B"}},
		{name: "last card", round: []string{"A", "B", "C"}, index: 2, wantRound: []string{"A", "B", "C"}},
		{name: "single card", round: []string{"A"}, index: 0, wantRound: []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newOrderedSession(tt.round...)
			s.CurrentIndex = tt.index
			s.CorrectBucket = []string{"X"}
			s.WrongBucket = []string{"Y"}

			s.skip()

			assert.Equal(t, tt.wantRound, s.CurrentRoundCards)
			assert.Equal(t, tt.index, s.CurrentIndex)
			assert.Equal(t, []string{"X"}, s.CorrectBucket)
			assert.Equal(t, []string{"Y"}, s.WrongBucket)
		})
	}
}

func TestSession_RemoveCard(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(s *Session)
		cardID      string
		wantChanged bool
		wantEnded   bool
		want        func(t *testing.T, s *Session)
	}{
		{
			name: "current card lets the next one slide in",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
			},
			cardID:      "B",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, []string{"A", "C"}, s.CurrentRoundCards)
				assert.Equal(t, 1, s.CurrentIndex)
				assert.Equal(t, "C", s.CurrentCardID())
			},
		},
		{
			name: "earlier card keeps pointing at the same card",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
			},
			cardID:      "A",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, []string{"B", "C"}, s.CurrentRoundCards)
				assert.Equal(t, 0, s.CurrentIndex)
				assert.Equal(t, "B", s.CurrentCardID())
				assert.Equal(t, []string{}, s.CorrectBucket)
				assert.Equal(t, []string{"B", "C"}, s.OriginalCardIDs)
			},
		},
		{
			name: "later card keeps the index",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
			},
			cardID:      "C",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, 1, s.CurrentIndex)
				assert.Equal(t, "B", s.CurrentCardID())
			},
		},
		{
			name: "last pending card starts the next round from wrong answers",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
				s.markWrong(noShuffle)
			},
			cardID:      "C",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, 2, s.CurrentRound)
				assert.Equal(t, []string{"B"}, s.CurrentRoundCards)
				assert.Equal(t, 0, s.CurrentIndex)
				assert.Equal(t, []string{}, s.WrongBucket)
				assert.False(t, s.IsComplete)
			},
		},
		{
			name: "last pending card completes without wrong answers",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
				s.markCorrect(noShuffle)
			},
			cardID:      "C",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.True(t, s.IsComplete)
				assert.Equal(t, []string{"A", "B"}, s.CorrectBucket)
				assert.Equal(t, 1, s.CurrentIndex)
			},
		},
		{
			name: "wrong card awaiting the next round",
			setup: func(s *Session) {
				s.markWrong(noShuffle)
			},
			cardID:      "A",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, []string{}, s.WrongBucket)
				assert.Equal(t, []string{"B", "C"}, s.CurrentRoundCards)
				assert.Equal(t, 0, s.CurrentIndex)
			},
		},
		{
			name: "card of a complete session keeps it complete",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
				s.markCorrect(noShuffle)
				s.markCorrect(noShuffle)
			},
			cardID:      "C",
			wantChanged: true,
			want: func(t *testing.T, s *Session) {
				assert.True(t, s.IsComplete)
				assert.Equal(t, []string{"A", "B"}, s.CorrectBucket)
				assert.Equal(t, 1, s.CurrentIndex)
			},
		},
		{
			name:        "absent card",
			setup:       func(*Session) {},
			cardID:      "Z",
			wantChanged: false,
			want: func(t *testing.T, s *Session) {
				assert.Equal(t, newOrderedSession("A", "B", "C"), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newOrderedSession("A", "B", "C")
			tt.setup(s)

			changed, ended := s.removeCard(tt.cardID, noShuffle)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantEnded, ended)
			tt.want(t, s)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSession_RemoveCard_LastCardEnds(t *testing.T) {
	s := newOrderedSession("A")

	changed, ended := s.removeCard("A", noShuffle)
	assert.True(t, changed)
	assert.True(t, ended)
}

func TestSession_RemoveCard_KeepsEveryCardInOnePlace(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
	}{
		{
			name: "after a wrong answer",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
				s.markWrong(noShuffle)
			},
		},
		{
			name: "after correct answers only",
			setup: func(s *Session) {
				s.markCorrect(noShuffle)
				s.markCorrect(noShuffle)
			},
		},
		{
			name: "after a skip",
			setup: func(s *Session) {
				s.markWrong(noShuffle)
				s.skip()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newOrderedSession("A", "B", "C")
			tt.setup(s)
			_, ended := s.removeCard("C", noShuffle)
			require.False(t, ended)
			assertEachCardOnce(t, s)

			for !s.IsComplete {
				s.markCorrect(noShuffle)
				assertEachCardOnce(t, s)
			}
			assert.ElementsMatch(t, []string{"A", "B"}, s.CorrectBucket)
		})
	}
}

// assertEachCardOnce checks that every original card is answered correctly, pending this round,
// or waiting in the wrong bucket, and in only one of them.
func assertEachCardOnce(t *testing.T, s *Session) {
	t.Helper()
	var pending []string
	if !s.IsComplete {
		pending = s.CurrentRoundCards[s.CurrentIndex:]
	}
	placed := slices.Concat(s.CorrectBucket, pending, s.WrongBucket)
	assert.ElementsMatch(t, s.OriginalCardIDs, placed)
}

func TestProgress(t *testing.T) {
	s := newOrderedSession("A", "B", "C", "D")
	s.markCorrect(noShuffle)
	s.markWrong(noShuffle)

	got := newProgress(s)
	assert.Equal(t, &Progress{
		Round:              1,
		CurrentPosition:    3,
		TotalInRound:       4,
		TotalCards:         4,
		CorrectCount:       1,
		RemainingInSession: 3,
	}, got)
	assert.Equal(t, 25, got.Percent())
	assert.Equal(t, 0, (&Progress{}).Percent())
}
