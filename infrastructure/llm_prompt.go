package infrastructure

import (
	"fmt"
	"strings"

	"liarsdice/domain/interfaces"
	"liarsdice/domain/utils"
)

const llmRules = `You are a strategic and rational player in Liar's Dice. You win by being the last player with at least one die.

# Rules
- On your turn either raise the bid or call "liar" on the previous bid.
- A bid claims at least QUANTITY dice on the whole table show FACE. A raise must increase the quantity, or keep it and increase the face.
- Ones are wild and count toward every other face.
- When liar is called all dice are revealed. If the count meets or exceeds the bid the challenger loses a die, otherwise the bidder does.

# Decisions
- Use the probabilities you are given.
- Call liar when the chance the current bid is true is below 40%.
- Otherwise raise to a bid whose chance of being true is at least 50% when one exists.
- Never make a bid with less than a 20% chance of being true, except as a bluff on the opening bid of a round.

# Output
- To bid, answer {"quantity": <int>, "face": <int>}.
- To call liar, answer {"quantity": 0, "face": 0}.
`

// BuildDecisionPrompt renders what a participant may know as the user message
func BuildDecisionPrompt(req interfaces.DecisionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s. Round %d.\n", req.Name, req.Round)
	fmt.Fprintf(&b, "Your dice: %s\n", utils.FormatDice(req.OwnDice))
	fmt.Fprintf(&b, "Total dice on the table: %d\n", req.TotalDice)

	if len(req.DiceCounts) > 0 {
		b.WriteString("Dice per player:\n")
		for _, c := range req.DiceCounts {
			fmt.Fprintf(&b, "- %s: %d\n", c.Name, c.Dice)
		}
	}

	if len(req.RoundBids) > 0 {
		b.WriteString("Bids this round:\n")
		for _, r := range req.RoundBids {
			fmt.Fprintf(&b, "- %s bid %s\n", r.ParticipantID, utils.FormatBid(r.Bid))
		}
	}

	if req.CurrentBid == nil {
		b.WriteString("There is no bid yet, you must open with a bid.\n")
	} else {
		fmt.Fprintf(&b, "Current bid: %s\n", utils.FormatBid(*req.CurrentBid))
	}

	if a := req.Advisory; a != nil {
		fmt.Fprintf(&b, "Probability the current bid is true: %s\n", utils.FormatPercent(a.TruthProbability))
		fmt.Fprintf(&b, "Expected number of matching dice: %.2f\n", a.ExpectedTotal)
		if a.BestBid != nil {
			fmt.Fprintf(&b, "Most likely raise: %s at %s\n", utils.FormatBid(*a.BestBid), utils.FormatPercent(a.BestBidProbability))
		} else {
			b.WriteString("No raise has any chance of being true.\n")
		}
	}

	if req.LastRejection != "" {
		fmt.Fprintf(&b, "Your previous answer was rejected: %s. Answer again.\n", req.LastRejection)
	}

	return b.String()
}
