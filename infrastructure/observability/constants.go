package observability

// Metric name prefixes
const (
	MetricPrefix = "liarsdice"
)

// Metric names
const (
	// Game metrics
	GamesStartedTotal  = MetricPrefix + ".games.started_total"
	GamesFinishedTotal = MetricPrefix + ".games.finished_total"
	GamesActive        = MetricPrefix + ".games.active"
	GameRounds         = MetricPrefix + ".games.rounds"
	GameDuration       = MetricPrefix + ".games.duration"

	// Round metrics
	RoundsResolvedTotal = MetricPrefix + ".rounds.resolved_total"

	// Decision metrics
	DecisionDuration      = MetricPrefix + ".decisions.duration"
	InvalidActionsTotal   = MetricPrefix + ".decisions.invalid_total"
	DecisionFallbackTotal = MetricPrefix + ".decisions.fallback_total"
)

// Label keys
const (
	LabelPlayers         = "players"
	LabelBidWasTrue      = "bid_was_true"
	LabelParticipantKind = "participant_kind"
	LabelReason          = "reason"
)
