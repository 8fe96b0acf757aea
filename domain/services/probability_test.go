package services

import (
	"math"
	"testing"

	"liarsdice/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binomialTail is a float reference implementation used to cross check the exact sums
func binomialTail(n, needed int, p float64) float64 {
	total := 0.0
	for k := needed; k <= n; k++ {
		c := 1.0
		for i := 0; i < k; i++ {
			c = c * float64(n-i) / float64(i+1)
		}
		total += c * math.Pow(p, float64(k)) * math.Pow(1-p, float64(n-k))
	}
	return total
}

func TestBidTruthProbability_OwnDiceAndWilds(t *testing.T) {
	// two 4s and a wild one cover three of the five, two more needed from seven hidden dice
	p := BidTruthProbability(10, entities.Bid{Quantity: 5, Face: 4}, []int{4, 4, 1})

	assert.InDelta(t, 1611.0/2187.0, p, 1e-12)
	assert.InDelta(t, binomialTail(7, 2, 1.0/3.0), p, 1e-12)
}

func TestBidTruthProbability_AlreadyMet(t *testing.T) {
	p := BidTruthProbability(6, entities.Bid{Quantity: 6, Face: 6}, []int{1, 1, 1, 1, 1, 1})
	assert.Equal(t, 1.0, p)
}

func TestBidTruthProbability_Impossible(t *testing.T) {
	// needs 4 from 2 hidden dice
	p := BidTruthProbability(5, entities.Bid{Quantity: 4, Face: 3}, []int{2, 5, 6})
	assert.Equal(t, 0.0, p)
}

func TestBidTruthProbability_NoHiddenDice(t *testing.T) {
	own := []int{3, 3, 1}
	assert.Equal(t, 1.0, BidTruthProbability(3, entities.Bid{Quantity: 3, Face: 3}, own))
	assert.Equal(t, 0.0, BidTruthProbability(3, entities.Bid{Quantity: 2, Face: 5}, own))

	for face := entities.MinFace; face <= entities.MaxFace; face++ {
		p := BidTruthProbability(0, entities.Bid{Quantity: 1, Face: face}, nil)
		assert.False(t, math.IsNaN(p))
		assert.Equal(t, 0.0, p)
	}
}

func TestBidTruthProbability_FaceOneUsesSameModel(t *testing.T) {
	// ones get the same 2/6 per hidden die as any other face
	own := []int{1, 5}
	pOnes := BidTruthProbability(8, entities.Bid{Quantity: 3, Face: 1}, own)
	pFives := BidTruthProbability(8, entities.Bid{Quantity: 4, Face: 5}, own)

	assert.InDelta(t, binomialTail(6, 2, MatchProbability), pOnes, 1e-12)
	assert.Equal(t, pOnes, pFives)
}

func TestBidTruthProbability_MonotonicInQuantity(t *testing.T) {
	own := []int{2, 6, 1, 4}
	for face := entities.MinFace; face <= entities.MaxFace; face++ {
		prev := 1.0
		for q := 1; q <= 20; q++ {
			p := BidTruthProbability(20, entities.Bid{Quantity: q, Face: face}, own)
			assert.LessOrEqual(t, p, prev, "face=%d q=%d", face, q)
			assert.GreaterOrEqual(t, p, 0.0)
			prev = p
		}
	}
}

func TestBidTruthProbability_HeldFacesScoreHigher(t *testing.T) {
	// 4 is held twice plus a wild, 2 once plus a wild, the rest only through the wild
	own := []int{4, 4, 1, 2}
	held := func(face int) int {
		n := 0
		for _, d := range own {
			if d == face || d == 1 {
				n++
			}
		}
		return n
	}

	probs := make(map[int]float64)
	for face := entities.MinFace; face <= entities.MaxFace; face++ {
		probs[face] = BidTruthProbability(10, entities.Bid{Quantity: 4, Face: face}, own)
	}

	assert.Greater(t, probs[4], probs[2])
	assert.Greater(t, probs[2], probs[3])
	assert.Equal(t, probs[3], probs[5])
	assert.Equal(t, probs[3], probs[6])

	for a := entities.MinFace; a <= entities.MaxFace; a++ {
		for b := entities.MinFace; b <= entities.MaxFace; b++ {
			if held(a) >= held(b) {
				assert.GreaterOrEqual(t, probs[a], probs[b], "face %d holds %d, face %d holds %d", a, held(a), b, held(b))
			}
		}
	}
}

func TestBidTruthProbability_StableForLargeTables(t *testing.T) {
	p := BidTruthProbability(60, entities.Bid{Quantity: 20, Face: 3}, []int{3, 3, 1, 4, 6})
	assert.InDelta(t, binomialTail(55, 17, 1.0/3.0), p, 1e-9)
	assert.False(t, math.IsNaN(p))
}

func TestAnalyzeBid(t *testing.T) {
	analysis := AnalyzeBid(10, entities.Bid{Quantity: 5, Face: 4}, []int{4, 4, 1})

	assert.InDelta(t, 1611.0/2187.0, analysis.TruthProbability, 1e-12)
	assert.InDelta(t, 7.0/3.0+3.0, analysis.ExpectedTotal, 1e-12)

	// 6 x 4's needs three of seven hidden dice, every other raise needs four
	require.NotNil(t, analysis.BestBid)
	assert.Equal(t, entities.Bid{Quantity: 6, Face: 4}, *analysis.BestBid)
	assert.InDelta(t, 939.0/2187.0, analysis.BestBidProbability, 1e-12)
}

func TestAnalyzeBid_TieBreaksOnQuantityThenFace(t *testing.T) {
	// nothing in hand, so every raise to two of a kind is equally likely
	analysis := AnalyzeBid(4, entities.Bid{Quantity: 1, Face: 6}, nil)

	require.NotNil(t, analysis.BestBid)
	assert.Equal(t, entities.Bid{Quantity: 2, Face: 6}, *analysis.BestBid)

	analysis = AnalyzeBid(4, entities.Bid{Quantity: 2, Face: 2}, []int{2, 3, 5})
	require.NotNil(t, analysis.BestBid)
	assert.Equal(t, entities.Bid{Quantity: 2, Face: 5}, *analysis.BestBid)
	assert.InDelta(t, 1.0/3.0, analysis.BestBidProbability, 1e-12)
}

func TestAnalyzeBid_PrefersCertainBids(t *testing.T) {
	analysis := AnalyzeBid(6, entities.Bid{Quantity: 2, Face: 3}, []int{6, 6, 1})

	require.NotNil(t, analysis.BestBid)
	assert.Equal(t, entities.Bid{Quantity: 3, Face: 6}, *analysis.BestBid)
	assert.Equal(t, 1.0, analysis.BestBidProbability)
}

func TestAnalyzeBid_NoImprovingBid(t *testing.T) {
	analysis := AnalyzeBid(3, entities.Bid{Quantity: 3, Face: 6}, []int{2, 3, 5})
	assert.Nil(t, analysis.BestBid)
	assert.Equal(t, 0.0, analysis.BestBidProbability)
	assert.Equal(t, 0.0, analysis.TruthProbability)

	// raises exist but none can be true
	analysis = AnalyzeBid(3, entities.Bid{Quantity: 2, Face: 5}, []int{2, 3, 4})
	assert.Nil(t, analysis.BestBid)
}

func TestAnalyzeBid_Idempotent(t *testing.T) {
	own := []int{5, 1, 2, 2}
	bid := entities.Bid{Quantity: 4, Face: 2}

	first := AnalyzeBid(14, bid, own)
	second := AnalyzeBid(14, bid, own)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{5, 1, 2, 2}, own)
}

func TestSuggestOpeningBid(t *testing.T) {
	own := []int{4, 4, 1, 2, 6}
	bid := SuggestOpeningBid(10, own, 0.5)

	assert.GreaterOrEqual(t, BidTruthProbability(10, bid, own), 0.5)
	assert.Equal(t, 4, bid.Face)

	// the next quantity of any face falls below the threshold
	for f := entities.MinFace; f <= entities.MaxFace; f++ {
		above := entities.Bid{Quantity: bid.Quantity + 1, Face: f}
		assert.Less(t, BidTruthProbability(10, above, own), 0.5, "%v", above)
	}
}

func TestSuggestOpeningBid_FallsBackToStrongestFace(t *testing.T) {
	bid := SuggestOpeningBid(2, []int{5}, 1.1)
	assert.Equal(t, entities.Bid{Quantity: 1, Face: 5}, bid)
}
