package entities

import "fmt"

// BidRecord is one bid in the current round with who made it
type BidRecord struct {
	ParticipantID string `json:"participant_id"`
	Bid           Bid    `json:"bid"`
}

// RoundState is the bid ledger for the round in progress
type RoundState struct {
	number  int
	current *Bid
	bids    []BidRecord
}

// NewRoundState starts at round 1 with no bids
func NewRoundState() *RoundState {
	return &RoundState{number: 1}
}

// IsValidBid reports whether candidate may follow current. Any bid opens a round.
func IsValidBid(candidate Bid, current *Bid) bool {
	if current == nil {
		return true
	}
	return candidate.Beats(*current)
}

// Number is the 1-based round counter
func (r *RoundState) Number() int {
	return r.number
}

// CurrentBid returns the outstanding bid, if any
func (r *RoundState) CurrentBid() (Bid, bool) {
	if r.current == nil {
		return Bid{}, false
	}
	return *r.current, true
}

// LastBidder returns the participant who made the outstanding bid
func (r *RoundState) LastBidder() (string, bool) {
	if len(r.bids) == 0 {
		return "", false
	}
	return r.bids[len(r.bids)-1].ParticipantID, true
}

// Bids returns the ordered ledger for this round
func (r *RoundState) Bids() []BidRecord {
	out := make([]BidRecord, len(r.bids))
	copy(out, r.bids)
	return out
}

// RecordBid appends bid to the ledger. State is unchanged when it is rejected.
func (r *RoundState) RecordBid(participantID string, bid Bid) error {
	if err := bid.Validate(); err != nil {
		return err
	}
	if !IsValidBid(bid, r.current) {
		return fmt.Errorf("%w: %s does not beat %s", ErrInvalidBid, bid, *r.current)
	}

	b := bid
	r.current = &b
	r.bids = append(r.bids, BidRecord{ParticipantID: participantID, Bid: bid})
	return nil
}

// Reset clears the ledger and moves to the next round number
func (r *RoundState) Reset() {
	r.current = nil
	r.bids = nil
	r.number++
}
