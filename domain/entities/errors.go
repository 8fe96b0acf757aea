package entities

import "errors"

var (
	// ErrInvalidBid is returned for a well-formed bid that does not beat the current bid
	ErrInvalidBid = errors.New("bid must raise the quantity, or keep it and raise the face")

	// ErrInvalidAction is returned for an action that is neither a bid nor a challenge
	ErrInvalidAction = errors.New("action must be a bid with quantity >= 1 and face 1-6, or a challenge")

	// ErrChallengeWithoutBid is returned when liar is called before anyone has bid this round
	ErrChallengeWithoutBid = errors.New("no bid to challenge this round")

	// ErrEmptyPool is returned when a pool with no dice is asked to lose or re-roll dice
	ErrEmptyPool = errors.New("dice pool is empty")

	ErrNotYourTurn       = errors.New("it is not your turn")
	ErrGameOver          = errors.New("game is already over")
	ErrNoPendingDecision = errors.New("no decision is pending for this player")
	ErrParticipantCount  = errors.New("a table needs between 2 and 6 participants")
	ErrUnknownPlayer     = errors.New("participant is not seated at this table")
)
