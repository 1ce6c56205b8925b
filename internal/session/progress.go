package session

// Progress summarises how far a session has come.
type Progress struct {
	Round              int `json:"round"`
	CurrentPosition    int `json:"currentPosition"`
	TotalInRound       int `json:"totalInRound"`
	TotalCards         int `json:"totalCards"`
	CorrectCount       int `json:"correctCount"`
	RemainingInSession int `json:"remainingInSession"`
}

func newProgress(s *Session) *Progress {
	position := s.CurrentIndex + 1
	if len(s.CurrentRoundCards) == 0 {
		position = 0
	}
	return &Progress{
		Round:              s.CurrentRound,
		CurrentPosition:    position,
		TotalInRound:       len(s.CurrentRoundCards),
		TotalCards:         len(s.OriginalCardIDs),
		CorrectCount:       len(s.CorrectBucket),
		RemainingInSession: len(s.OriginalCardIDs) - len(s.CorrectBucket),
	}
}

// Percent returns the share of cards answered correctly, from 0 to 100.
func (p *Progress) Percent() int {
	if p.TotalCards == 0 {
		return 0
	}
	return p.CorrectCount * 100 / p.TotalCards
}
