package entities

import "fmt"

const (
	MinParticipants = 2
	MaxParticipants = 6
)

// Table owns every piece of mutable game state for one session: the seats in
// rotation order, the turn pointer, the bid ledger and the log.
type Table struct {
	ID           string
	participants []*Participant
	eliminated   []*Participant
	turn         int
	Round        *RoundState
	Log          *GameLog
}

// NewTable seats participants in the given rotation order. The first seat acts first.
func NewTable(id string, participants []*Participant) (*Table, error) {
	if len(participants) < MinParticipants || len(participants) > MaxParticipants {
		return nil, fmt.Errorf("%w: got %d", ErrParticipantCount, len(participants))
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == nil || p.Pool == nil {
			return nil, fmt.Errorf("participant has no dice pool")
		}
		if p.ID == "" {
			return nil, fmt.Errorf("participant %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("participant %s seated twice", p.ID)
		}
		if p.Pool.IsEmpty() {
			return nil, fmt.Errorf("participant %s starts with no dice: %w", p.ID, ErrEmptyPool)
		}
		seen[p.ID] = true
	}

	seats := make([]*Participant, len(participants))
	copy(seats, participants)

	return &Table{
		ID:           id,
		participants: seats,
		Round:        NewRoundState(),
		Log:          NewGameLog(),
	}, nil
}

// Participants returns the active seats in rotation order
func (t *Table) Participants() []*Participant {
	out := make([]*Participant, len(t.participants))
	copy(out, t.participants)
	return out
}

// Eliminated returns participants in the order they were knocked out
func (t *Table) Eliminated() []*Participant {
	out := make([]*Participant, len(t.eliminated))
	copy(out, t.eliminated)
	return out
}

// Current is the participant whose turn it is, nil once the game is over
func (t *Table) Current() *Participant {
	if len(t.participants) == 0 {
		return nil
	}
	return t.participants[t.turn]
}

// Advance moves the turn pointer to the next active seat
func (t *Table) Advance() {
	if len(t.participants) == 0 {
		return
	}
	t.turn = (t.turn + 1) % len(t.participants)
}

// Find returns the active participant with id and its seat index
func (t *Table) Find(id string) (*Participant, int) {
	for i, p := range t.participants {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// SetTurn points the turn at participant id
func (t *Table) SetTurn(id string) error {
	_, idx := t.Find(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	t.turn = idx
	return nil
}

// SetTurnIndex points the turn at a seat, wrapping past the end
func (t *Table) SetTurnIndex(idx int) {
	if len(t.participants) == 0 {
		t.turn = 0
		return
	}
	t.turn = idx % len(t.participants)
}

// TotalDice is the number of dice still on the table
func (t *Table) TotalDice() int {
	total := 0
	for _, p := range t.participants {
		total += p.Pool.Size()
	}
	return total
}

// CountMatching counts face across every pool, wild ones included unless face is wild
func (t *Table) CountMatching(face int) int {
	total := 0
	for _, p := range t.participants {
		total += p.Pool.CountMatching(face)
	}
	return total
}

// DiceCounts lists remaining dice per active participant in rotation order
func (t *Table) DiceCounts() []DiceCount {
	out := make([]DiceCount, 0, len(t.participants))
	for _, p := range t.participants {
		out = append(out, DiceCount{ParticipantID: p.ID, Name: p.Name, Dice: p.Pool.Size()})
	}
	return out
}

// Reveal snapshots every active pool
func (t *Table) Reveal() []RevealedPool {
	out := make([]RevealedPool, 0, len(t.participants))
	for _, p := range t.participants {
		out = append(out, RevealedPool{ParticipantID: p.ID, Name: p.Name, Dice: p.Pool.Dice()})
	}
	return out
}

// RemoveEliminated drops every empty pool from the rotation for good and
// returns the removed participants. The turn pointer is left for the caller.
func (t *Table) RemoveEliminated() []*Participant {
	var removed []*Participant
	active := t.participants[:0]
	for _, p := range t.participants {
		if p.IsEliminated() {
			removed = append(removed, p)
			continue
		}
		active = append(active, p)
	}
	t.participants = active
	t.eliminated = append(t.eliminated, removed...)
	if t.turn >= len(t.participants) {
		t.turn = 0
	}
	return removed
}

// RerollAll rolls every active pool
func (t *Table) RerollAll(roller Roller) error {
	for _, p := range t.participants {
		if err := p.Pool.Reroll(roller); err != nil {
			return fmt.Errorf("failed to reroll dice for %s: %w", p.ID, err)
		}
	}
	return nil
}

// IsOver is true once a single participant holds dice
func (t *Table) IsOver() bool {
	return len(t.participants) <= 1
}

// Winner returns the last participant standing
func (t *Table) Winner() *Participant {
	if len(t.participants) != 1 {
		return nil
	}
	return t.participants[0]
}
