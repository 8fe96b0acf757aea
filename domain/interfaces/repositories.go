package interfaces

import (
	"context"

	"liarsdice/domain/entities"
)

// PlayerRecordRepository persists lifetime player tallies
type PlayerRecordRepository interface {
	// GetByPlayerID returns nil, nil when the player has no record yet
	GetByPlayerID(ctx context.Context, playerID string) (*entities.PlayerRecord, error)
	// ApplyDelta creates or updates the record for delta.PlayerID
	ApplyDelta(ctx context.Context, delta entities.PlayerRecordDelta) (*entities.PlayerRecord, error)
	// GetLeaderboard orders by games won, then win rate
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.PlayerRecord, error)
}
