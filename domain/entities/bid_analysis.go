package entities

// BidAnalysis is the probability advisory for an outstanding bid
type BidAnalysis struct {
	// TruthProbability is the chance the bid is true given the viewer's own dice
	TruthProbability float64 `json:"truth_probability"`
	// ExpectedTotal is the expected count of matching dice on the table
	ExpectedTotal      float64 `json:"expected_total"`
	BestBidProbability float64 `json:"best_bid_probability"`
	// BestBid is nil when no legal raise has a positive chance of being true
	BestBid *Bid `json:"best_bid,omitempty"`
}
