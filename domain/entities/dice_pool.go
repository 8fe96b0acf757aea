package entities

import "fmt"

const (
	MinFace  = 1
	MaxFace  = 6
	WildFace = 1

	DefaultStartingDice = 5
)

// Roller produces a single uniform die value in [MinFace, MaxFace]
type Roller interface {
	RollDie() int
}

// DicePool is one participant's hidden dice
type DicePool struct {
	dice []int
}

// NewDicePool creates a pool of size dice, all showing MinFace until the first Reroll
func NewDicePool(size int) *DicePool {
	if size < 0 {
		size = 0
	}
	dice := make([]int, size)
	for i := range dice {
		dice[i] = MinFace
	}
	return &DicePool{dice: dice}
}

// NewDicePoolFromValues creates a pool with fixed values, mostly useful in tests and replays
func NewDicePoolFromValues(values ...int) (*DicePool, error) {
	dice := make([]int, len(values))
	for i, v := range values {
		if v < MinFace || v > MaxFace {
			return nil, fmt.Errorf("die value %d out of range", v)
		}
		dice[i] = v
	}
	return &DicePool{dice: dice}, nil
}

// Reroll replaces every die with a fresh roll. The pool size never changes.
func (p *DicePool) Reroll(roller Roller) error {
	if len(p.dice) == 0 {
		return ErrEmptyPool
	}
	for i := range p.dice {
		p.dice[i] = roller.RollDie()
	}
	return nil
}

// LoseDie removes exactly one die
func (p *DicePool) LoseDie() error {
	if len(p.dice) == 0 {
		return ErrEmptyPool
	}
	p.dice = p.dice[:len(p.dice)-1]
	return nil
}

// Count returns how many dice show face exactly. Wilds are not included.
func (p *DicePool) Count(face int) int {
	n := 0
	for _, d := range p.dice {
		if d == face {
			n++
		}
	}
	return n
}

// CountMatching counts dice showing face plus wild ones when face is not itself wild
func (p *DicePool) CountMatching(face int) int {
	n := p.Count(face)
	if face != WildFace {
		n += p.Count(WildFace)
	}
	return n
}

func (p *DicePool) Size() int {
	return len(p.dice)
}

func (p *DicePool) IsEmpty() bool {
	return len(p.dice) == 0
}

// Dice returns a copy of the current values
func (p *DicePool) Dice() []int {
	out := make([]int, len(p.dice))
	copy(out, p.dice)
	return out
}
