package liarsdice

import (
	"context"
	"sync"

	"liarsdice/application"
	"liarsdice/bot/common"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/services"
	"liarsdice/infrastructure"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EventRegistrar lets the feature listen to the game events it displays
type EventRegistrar interface {
	RegisterLocalHandler(handler infrastructure.EventHandler, eventTypes ...events.EventType)
}

// ChannelSender posts messages to a channel. *discordgo.Session satisfies it.
type ChannelSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// activeTable is a game running in one channel
type activeTable struct {
	gameID    string
	channelID string
	game      *application.Game
	broker    *services.DecisionBroker
	humans    map[string]bool
	cancel    context.CancelFunc
}

// Feature runs Liar's Dice tables in Discord channels, one per channel
type Feature struct {
	sender   ChannelSender
	runner   *application.GameRunner
	llm      interfaces.DecisionSource
	settings application.GameSettings

	mu       sync.Mutex
	tables   map[string]*activeTable // by channel id
	channels map[string]string       // game id to channel id

	ctx    context.Context
	cancel context.CancelFunc
}

// displayedEvents are the game events posted to the table's channel
var displayedEvents = []events.EventType{
	events.EventTypeGameStarted,
	events.EventTypeBidMade,
	events.EventTypeChallengeCalled,
	events.EventTypeDiceRevealed,
	events.EventTypeRoundResolved,
	events.EventTypePlayerEliminated,
	events.EventTypeGameOver,
	events.EventTypeActionRejected,
	events.EventTypeDecisionFallback,
}

// NewFeature creates the liarsdice feature. llm may be nil, in which case LLM seats are refused.
func NewFeature(sender ChannelSender, runner *application.GameRunner, registrar EventRegistrar, llm interfaces.DecisionSource, settings application.GameSettings) *Feature {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Feature{
		sender:   sender,
		runner:   runner,
		llm:      llm,
		settings: settings,
		tables:   make(map[string]*activeTable),
		channels: make(map[string]string),
		ctx:      ctx,
		cancel:   cancel,
	}
	if registrar != nil {
		registrar.RegisterLocalHandler(f.handleGameEvent, displayedEvents...)
	}
	return f
}

// HandleCommand handles the game subcommands of /liarsdice
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: start, bid, liar or dice")
		return
	}

	var err error
	switch options[0].Name {
	case "start":
		err = f.handleStart(s, i, options[0].Options)
	case "bid":
		err = f.handleBid(s, i, options[0].Options)
	case "liar":
		err = f.handleLiar(s, i)
	case "dice":
		err = f.handleDice(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
		return
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}

// Close abandons every running table
func (f *Feature) Close() {
	f.cancel()
	log.Info("Liar's Dice tables stopped")
}

func (f *Feature) tableInChannel(channelID string) (*activeTable, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[channelID]
	return t, ok
}

func (f *Feature) channelForGame(gameID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[gameID]
	return ch, ok
}

func (f *Feature) addTable(t *activeTable) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.tables[t.channelID]; busy {
		return false
	}
	f.tables[t.channelID] = t
	f.channels[t.gameID] = t.channelID
	return true
}

func (f *Feature) removeTable(t *activeTable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables[t.channelID] == t {
		delete(f.tables, t.channelID)
	}
	delete(f.channels, t.gameID)
}

// handleGameEvent posts a display event to the channel its table runs in
func (f *Feature) handleGameEvent(ctx context.Context, event events.Event) error {
	channelID, ok := f.channelForGame(event.GameID())
	if !ok {
		return nil
	}

	msg, err := buildEventMessage(event)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	if _, err := f.sender.ChannelMessageSendComplex(channelID, msg); err != nil {
		return err
	}
	return nil
}
