package services

import (
	"context"
	"fmt"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 25
)

type playerRecordService struct {
	recordRepo interfaces.PlayerRecordRepository
}

// NewPlayerRecordService creates a record service over repo
func NewPlayerRecordService(recordRepo interfaces.PlayerRecordRepository) interfaces.PlayerRecordService {
	return &playerRecordService{recordRepo: recordRepo}
}

// RecordGame applies a finished game to the records of the players in names,
// keyed by participant ID. Participants missing from names are not recorded.
func (s *playerRecordService) RecordGame(ctx context.Context, result *entities.GameResult, names map[string]string) error {
	if result == nil {
		return fmt.Errorf("no result to record")
	}

	for _, delta := range result.RecordDeltas(names) {
		if _, ok := names[delta.PlayerID]; !ok {
			continue
		}
		record, err := s.recordRepo.ApplyDelta(ctx, delta)
		if err != nil {
			return fmt.Errorf("failed to update record for %s: %w", delta.PlayerID, err)
		}

		log.WithFields(log.Fields{
			"table_id":     result.TableID,
			"player_id":    record.PlayerID,
			"games_played": record.GamesPlayed,
			"games_won":    record.GamesWon,
		}).Debug("Player record updated")
	}
	return nil
}

func (s *playerRecordService) GetRecord(ctx context.Context, playerID string) (*entities.PlayerRecord, error) {
	record, err := s.recordRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get record for %s: %w", playerID, err)
	}
	return record, nil
}

// GetLeaderboard clamps limit to [1, MaxLeaderboardLimit], using the default for non-positive values
func (s *playerRecordService) GetLeaderboard(ctx context.Context, limit int) ([]*entities.PlayerRecord, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	records, err := s.recordRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return records, nil
}
