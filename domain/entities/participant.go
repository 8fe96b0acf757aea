package entities

type ParticipantKind string

const (
	ParticipantHuman ParticipantKind = "human"
	ParticipantBot   ParticipantKind = "bot"
	ParticipantLLM   ParticipantKind = "llm"
)

// Participant is a seat at the table and the dice it owns
type Participant struct {
	ID   string
	Name string
	Kind ParticipantKind
	Pool *DicePool
}

func NewParticipant(id, name string, kind ParticipantKind, startingDice int) *Participant {
	return &Participant{
		ID:   id,
		Name: name,
		Kind: kind,
		Pool: NewDicePool(startingDice),
	}
}

func (p *Participant) IsEliminated() bool {
	return p.Pool.IsEmpty()
}

// DiceCount is a public view of how many dice a participant still holds
type DiceCount struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Dice          int    `json:"dice"`
}
