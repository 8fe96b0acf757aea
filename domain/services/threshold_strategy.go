package services

import (
	"context"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"
)

const (
	DefaultChallengeBelow = 0.4
	DefaultMinRaise       = 0.2
	DefaultOpeningAtLeast = 0.5
)

// ThresholdStrategy is a bot decision source driven by the bid advisory.
// It challenges an unlikely bid, otherwise raises to the best candidate when
// that is plausible enough, and challenges when no raise is.
type ThresholdStrategy struct {
	ChallengeBelow float64
	MinRaise       float64
	OpeningAtLeast float64
}

func NewThresholdStrategy() *ThresholdStrategy {
	return &ThresholdStrategy{
		ChallengeBelow: DefaultChallengeBelow,
		MinRaise:       DefaultMinRaise,
		OpeningAtLeast: DefaultOpeningAtLeast,
	}
}

func (s *ThresholdStrategy) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	if err := ctx.Err(); err != nil {
		return entities.Action{}, err
	}

	if req.CurrentBid == nil {
		return entities.BidAction(SuggestOpeningBid(req.TotalDice, req.OwnDice, s.OpeningAtLeast)), nil
	}

	analysis := req.Advisory
	if analysis == nil {
		a := AnalyzeBid(req.TotalDice, *req.CurrentBid, req.OwnDice)
		analysis = &a
	}

	if analysis.TruthProbability < s.ChallengeBelow {
		return entities.ChallengeAction(), nil
	}
	if analysis.BestBid != nil && analysis.BestBidProbability >= s.MinRaise {
		return entities.BidAction(*analysis.BestBid), nil
	}
	return entities.ChallengeAction(), nil
}
