package entities

import "time"

type LogEntryKind string

const (
	LogEntryBid       LogEntryKind = "bid"
	LogEntryChallenge LogEntryKind = "challenge"
	LogEntryFallback  LogEntryKind = "fallback"
)

// ChallengeOutcome records everything revealed by a resolved challenge
type ChallengeOutcome struct {
	ChallengerID string         `json:"challenger_id"`
	BidderID     string         `json:"bidder_id"`
	Bid          Bid            `json:"bid"`
	ActualCount  int            `json:"actual_count"`
	BidWasTrue   bool           `json:"bid_was_true"`
	LoserID      string         `json:"loser_id"`
	Eliminated   bool           `json:"eliminated"`
	Revealed     []RevealedPool `json:"revealed"`
}

// RevealedPool is one participant's dice as shown at a reveal
type RevealedPool struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Dice          []int  `json:"dice"`
}

// LogEntry is one resolved action
type LogEntry struct {
	Round         int               `json:"round"`
	Kind          LogEntryKind      `json:"kind"`
	ParticipantID string            `json:"participant_id"`
	Bid           *Bid              `json:"bid,omitempty"`
	Challenge     *ChallengeOutcome `json:"challenge,omitempty"`
	At            time.Time         `json:"at"`
}

// GameLog is append-only
type GameLog struct {
	entries []LogEntry
}

func NewGameLog() *GameLog {
	return &GameLog{}
}

func (l *GameLog) Append(entry LogEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	l.entries = append(l.entries, entry)
}

func (l *GameLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *GameLog) Len() int {
	return len(l.entries)
}
