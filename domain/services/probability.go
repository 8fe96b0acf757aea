package services

import (
	"math/big"

	"liarsdice/domain/entities"
)

// MatchProbability is the chance one hidden die counts toward a bid: the face
// itself or a wild one. It is used for every face, ones included.
const MatchProbability = 2.0 / 6.0

// probabilityModel caches the binomial tail for one viewer's hidden-dice count
type probabilityModel struct {
	totalDice int
	ownDice   []int
	unknown   int
	tails     []float64
}

func newProbabilityModel(totalDice int, ownDice []int) *probabilityModel {
	unknown := totalDice - len(ownDice)
	if unknown < 0 {
		unknown = 0
	}
	return &probabilityModel{
		totalDice: totalDice,
		ownDice:   ownDice,
		unknown:   unknown,
		tails:     binomialTails(unknown),
	}
}

// binomialTails returns P(X >= k) for X ~ Binomial(n, 1/3), k in [0, n+1].
// Each term C(n,k) * 2^(n-k) / 3^n is summed as an exact rational first.
func binomialTails(n int) []float64 {
	tails := make([]float64, n+2)
	denominator := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(n)), nil)
	numerator := new(big.Int)
	term := new(big.Int)

	for k := n; k >= 0; k-- {
		term.Binomial(int64(n), int64(k))
		term.Lsh(term, uint(n-k))
		numerator.Add(numerator, term)
		tails[k], _ = new(big.Rat).SetFrac(numerator, denominator).Float64()
	}
	tails[0] = 1
	return tails
}

func ownMatches(ownDice []int, face int) int {
	n := 0
	for _, d := range ownDice {
		if d == face || d == entities.WildFace {
			n++
		}
	}
	return n
}

func (m *probabilityModel) truth(bid entities.Bid) float64 {
	needed := bid.Quantity - ownMatches(m.ownDice, bid.Face)
	if needed <= 0 {
		return 1
	}
	if needed > m.unknown {
		return 0
	}
	return m.tails[needed]
}

func (m *probabilityModel) expectedTotal(face int) float64 {
	return float64(m.unknown)*MatchProbability + float64(ownMatches(m.ownDice, face))
}

// better orders candidates by probability, then quantity, then face
func better(p float64, b entities.Bid, bestP float64, best *entities.Bid) bool {
	if best == nil || p != bestP {
		return p > bestP
	}
	if b.Quantity != best.Quantity {
		return b.Quantity > best.Quantity
	}
	return b.Face > best.Face
}

func (m *probabilityModel) bestRaise(current entities.Bid) (*entities.Bid, float64) {
	var best *entities.Bid
	bestP := 0.0

	for q := current.Quantity; q <= m.totalDice; q++ {
		firstFace := entities.MinFace
		if q == current.Quantity {
			firstFace = current.Face + 1
		}
		for f := firstFace; f <= entities.MaxFace; f++ {
			candidate := entities.Bid{Quantity: q, Face: f}
			p := m.truth(candidate)
			if p <= 0 {
				continue
			}
			if better(p, candidate, bestP, best) {
				c := candidate
				best = &c
				bestP = p
			}
		}
	}
	return best, bestP
}

// BidTruthProbability returns the chance that bid is true given the viewer's own dice
func BidTruthProbability(totalDice int, bid entities.Bid, ownDice []int) float64 {
	return newProbabilityModel(totalDice, ownDice).truth(bid)
}

// AnalyzeBid computes the advisory for an outstanding bid from one viewer's seat
func AnalyzeBid(totalDice int, bid entities.Bid, ownDice []int) entities.BidAnalysis {
	m := newProbabilityModel(totalDice, ownDice)
	best, bestP := m.bestRaise(bid)
	return entities.BidAnalysis{
		TruthProbability:   m.truth(bid),
		ExpectedTotal:      m.expectedTotal(bid.Face),
		BestBidProbability: bestP,
		BestBid:            best,
	}
}

// SuggestOpeningBid picks the highest quantity whose truth probability is at
// least minProbability, preferring the likelier face and then the higher one.
// With nothing above the threshold it opens with one of the face it holds most of.
func SuggestOpeningBid(totalDice int, ownDice []int, minProbability float64) entities.Bid {
	m := newProbabilityModel(totalDice, ownDice)

	var best *entities.Bid
	bestP := 0.0
	for q := 1; q <= totalDice; q++ {
		for f := entities.MinFace; f <= entities.MaxFace; f++ {
			candidate := entities.Bid{Quantity: q, Face: f}
			p := m.truth(candidate)
			if p < minProbability {
				continue
			}
			switch {
			case best == nil, q > best.Quantity:
			case q == best.Quantity && (p > bestP || (p == bestP && f > best.Face)):
			default:
				continue
			}
			c := candidate
			best = &c
			bestP = p
		}
	}
	if best != nil {
		return *best
	}

	face := entities.MaxFace
	for f := entities.MaxFace; f >= entities.MinFace; f-- {
		if ownMatches(ownDice, f) > ownMatches(ownDice, face) {
			face = f
		}
	}
	return entities.Bid{Quantity: 1, Face: face}
}
