package entities

import "fmt"

// Bid claims that at least Quantity dice on the table show Face, wilds included
type Bid struct {
	Quantity int `json:"quantity"`
	Face     int `json:"face"`
}

// NewBid returns a bid after checking its shape
func NewBid(quantity, face int) (Bid, error) {
	b := Bid{Quantity: quantity, Face: face}
	if err := b.Validate(); err != nil {
		return Bid{}, err
	}
	return b, nil
}

// Validate checks quantity >= 1 and face within the die range
func (b Bid) Validate() error {
	if b.Quantity < 1 || b.Face < MinFace || b.Face > MaxFace {
		return fmt.Errorf("%w: got quantity=%d face=%d", ErrInvalidAction, b.Quantity, b.Face)
	}
	return nil
}

// Beats reports whether b strictly dominates other
func (b Bid) Beats(other Bid) bool {
	if b.Quantity != other.Quantity {
		return b.Quantity > other.Quantity
	}
	return b.Face > other.Face
}

func (b Bid) String() string {
	return fmt.Sprintf("%d x %d's", b.Quantity, b.Face)
}

// Action is what a decision source returns for its turn: a bid, or the
// challenge sentinel {0, 0}.
type Action struct {
	Quantity int `json:"quantity"`
	Face     int `json:"face"`
}

// ChallengeAction calls liar on the current bid
func ChallengeAction() Action {
	return Action{}
}

// BidAction wraps a bid as an action
func BidAction(b Bid) Action {
	return Action{Quantity: b.Quantity, Face: b.Face}
}

func (a Action) IsChallenge() bool {
	return a.Quantity == 0 && a.Face == 0
}

// Bid returns the action as a bid, or ErrInvalidAction when it is not a well-formed one
func (a Action) Bid() (Bid, error) {
	if a.IsChallenge() {
		return Bid{}, fmt.Errorf("%w: challenge is not a bid", ErrInvalidAction)
	}
	return NewBid(a.Quantity, a.Face)
}

// Validate accepts the challenge sentinel or a well-formed bid
func (a Action) Validate() error {
	if a.IsChallenge() {
		return nil
	}
	_, err := a.Bid()
	return err
}

func (a Action) String() string {
	if a.IsChallenge() {
		return "liar"
	}
	return Bid{Quantity: a.Quantity, Face: a.Face}.String()
}
