package infrastructure

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/utils"
)

// ConsoleInput reads lines from a terminal on its own goroutine so that a
// pending prompt can still be abandoned when its context ends
type ConsoleInput struct {
	lines chan string
}

// NewConsoleInput starts reading r. The channel closes at EOF.
func NewConsoleInput(r io.Reader) *ConsoleInput {
	in := &ConsoleInput{lines: make(chan string)}
	go func() {
		defer close(in.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			in.lines <- strings.TrimSpace(scanner.Text())
		}
	}()
	return in
}

// ReadLine waits for the next line
func (in *ConsoleInput) ReadLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ParseAction reads "liar" (or "l", "challenge") as a challenge and
// "3 4", "3x4" or "3,4" as a bid of three fours
func ParseAction(line string) (entities.Action, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "liar", "l", "challenge", "c":
		return entities.ChallengeAction(), nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == 'x' || r == ','
	})
	if len(fields) != 2 {
		return entities.Action{}, fmt.Errorf("%w: expected \"quantity face\" or \"liar\", got %q", entities.ErrInvalidAction, line)
	}
	quantity, err := strconv.Atoi(fields[0])
	if err != nil {
		return entities.Action{}, fmt.Errorf("%w: quantity %q is not a number", entities.ErrInvalidAction, fields[0])
	}
	face, err := strconv.Atoi(fields[1])
	if err != nil {
		return entities.Action{}, fmt.Errorf("%w: face %q is not a number", entities.ErrInvalidAction, fields[1])
	}
	return entities.Action{Quantity: quantity, Face: face}, nil
}

// ConsoleDecisionSource asks a human at the terminal for each action
type ConsoleDecisionSource struct {
	input *ConsoleInput
	out   io.Writer
}

// NewConsoleDecisionSource creates a console source. Several hot-seat players may share one input.
func NewConsoleDecisionSource(input *ConsoleInput, out io.Writer) *ConsoleDecisionSource {
	return &ConsoleDecisionSource{input: input, out: out}
}

func (s *ConsoleDecisionSource) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	fmt.Fprintf(s.out, "\n%s, your dice: %s\n", req.Name, utils.FormatDice(req.OwnDice))
	if req.LastRejection != "" {
		fmt.Fprintf(s.out, "Rejected: %s\n", req.LastRejection)
	}
	if req.CurrentBid == nil {
		fmt.Fprintf(s.out, "You open. %d dice on the table.\nBid (quantity face): ", req.TotalDice)
	} else {
		fmt.Fprintf(s.out, "Current bid: %s, %d dice on the table.\n", utils.FormatBid(*req.CurrentBid), req.TotalDice)
		if a := req.Advisory; a != nil {
			fmt.Fprintf(s.out, "Chance it is true: %s, expected count %.2f", utils.FormatPercent(a.TruthProbability), a.ExpectedTotal)
			if a.BestBid != nil {
				fmt.Fprintf(s.out, ", safest raise %s (%s)", utils.FormatBid(*a.BestBid), utils.FormatPercent(a.BestBidProbability))
			}
			fmt.Fprintln(s.out)
		}
		fmt.Fprint(s.out, "Raise (quantity face) or call liar: ")
	}

	line, err := s.input.ReadLine(ctx)
	if err != nil {
		return entities.Action{}, err
	}
	return ParseAction(line)
}

// ConsoleDisplay prints game events for a terminal table
type ConsoleDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleDisplay creates a display writing to out
func NewConsoleDisplay(out io.Writer) *ConsoleDisplay {
	return &ConsoleDisplay{out: out}
}

// Register subscribes the display to every game event it prints
func (d *ConsoleDisplay) Register(publisher *LocalEventPublisher) {
	publisher.RegisterLocalHandler(d.Handle,
		events.EventTypeGameStarted,
		events.EventTypeBidMade,
		events.EventTypeChallengeCalled,
		events.EventTypeDiceRevealed,
		events.EventTypeRoundResolved,
		events.EventTypePlayerEliminated,
		events.EventTypeGameOver,
		events.EventTypeActionRejected,
		events.EventTypeDecisionFallback,
	)
}

// Handle prints one event
func (d *ConsoleDisplay) Handle(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e := event.(type) {
	case events.GameStartedEvent:
		fmt.Fprintln(d.out, "=== Liar's Dice ===")
		d.printCounts(e.DiceCounts)
	case events.BidMadeEvent:
		fmt.Fprintf(d.out, "%s bids %s\n", e.Name, utils.FormatBid(e.Bid))
	case events.ChallengeCalledEvent:
		fmt.Fprintf(d.out, "%s calls %s a liar!\n", e.Challenger, e.Bidder)
	case events.DiceRevealedEvent:
		fmt.Fprintln(d.out, "Revealed dice:")
		for _, pool := range e.Pools {
			fmt.Fprintf(d.out, "  %s: %s\n", pool.Name, utils.FormatDice(pool.Dice))
		}
		fmt.Fprintf(d.out, "There are %d %s (bid was %d)\n", e.ActualCount, utils.FormatFace(e.Bid.Face), e.Bid.Quantity)
	case events.RoundResolvedEvent:
		if e.BidWasTrue {
			fmt.Fprintf(d.out, "The bid stands. %s loses a die.\n", e.Loser)
		} else {
			fmt.Fprintf(d.out, "The bid was a lie. %s loses a die.\n", e.Loser)
		}
		d.printCounts(e.DiceCounts)
	case events.PlayerEliminatedEvent:
		fmt.Fprintf(d.out, "%s is out!\n", e.Name)
	case events.GameOverEvent:
		fmt.Fprintf(d.out, "\n%s wins with %d dice remaining after %d rounds!\n", e.Winner, e.WinnerDice, e.Rounds)
	case events.ActionRejectedEvent:
		fmt.Fprintf(d.out, "Invalid move by %s: %s\n", e.Name, e.Reason)
	case events.DecisionFallbackEvent:
		fmt.Fprintf(d.out, "%s ran out of chances (%s) and plays %s\n", e.Name, e.Reason, e.Action)
	case events.TurnStartedEvent:
		fmt.Fprintf(d.out, "%s to act in round %d\n", e.Name, e.Round)
	case events.RecordsUpdatedEvent:
		fmt.Fprintf(d.out, "Records updated for %d players\n", len(e.PlayerIDs))
	}
	return nil
}

func (d *ConsoleDisplay) printCounts(counts []entities.DiceCount) {
	for _, c := range counts {
		fmt.Fprintf(d.out, "  %s: %d dice\n", c.Name, c.Dice)
	}
}
