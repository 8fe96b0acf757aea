package repository

import (
	"context"
	"errors"
	"fmt"

	"liarsdice/database"
	"liarsdice/domain/entities"

	"github.com/jackc/pgx/v5"
)

const playerRecordColumns = `
	player_id,
	display_name,
	games_played,
	games_won,
	challenges_made,
	challenges_won,
	dice_lost,
	created_at,
	updated_at`

// PlayerRecordRepository implements the PlayerRecordRepository interface
type PlayerRecordRepository struct {
	q Queryable
}

// NewPlayerRecordRepository creates a repository on the connection pool
func NewPlayerRecordRepository(db *database.DB) *PlayerRecordRepository {
	return &PlayerRecordRepository{q: db.Pool}
}

// newPlayerRecordRepository creates a repository bound to a transaction
func newPlayerRecordRepository(tx Queryable) *PlayerRecordRepository {
	return &PlayerRecordRepository{q: tx}
}

// GetByPlayerID retrieves a player's record, nil when the player has none
func (r *PlayerRecordRepository) GetByPlayerID(ctx context.Context, playerID string) (*entities.PlayerRecord, error) {
	query := `SELECT ` + playerRecordColumns + `
		FROM player_records
		WHERE player_id = $1
	`

	record, err := scanPlayerRecord(r.q.QueryRow(ctx, query, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player record %s: %w", playerID, err)
	}
	return record, nil
}

// ApplyDelta adds one game's results to a record, creating it on first play
func (r *PlayerRecordRepository) ApplyDelta(ctx context.Context, delta entities.PlayerRecordDelta) (*entities.PlayerRecord, error) {
	won := 0
	if delta.Won {
		won = 1
	}

	query := `
		INSERT INTO player_records (
			player_id, display_name, games_played, games_won,
			challenges_made, challenges_won, dice_lost
		)
		VALUES ($1, $2, 1, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			display_name    = COALESCE(NULLIF(EXCLUDED.display_name, ''), player_records.display_name),
			games_played    = player_records.games_played + 1,
			games_won       = player_records.games_won + EXCLUDED.games_won,
			challenges_made = player_records.challenges_made + EXCLUDED.challenges_made,
			challenges_won  = player_records.challenges_won + EXCLUDED.challenges_won,
			dice_lost       = player_records.dice_lost + EXCLUDED.dice_lost,
			updated_at      = NOW()
		RETURNING ` + playerRecordColumns

	record, err := scanPlayerRecord(r.q.QueryRow(ctx, query,
		delta.PlayerID,
		delta.DisplayName,
		won,
		delta.ChallengesMade,
		delta.ChallengesWon,
		delta.DiceLost,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to apply record delta for %s: %w", delta.PlayerID, err)
	}
	return record, nil
}

// GetLeaderboard returns the top players by wins, then win rate, then fewest dice lost
func (r *PlayerRecordRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.PlayerRecord, error) {
	query := `SELECT ` + playerRecordColumns + `
		FROM player_records
		WHERE games_played > 0
		ORDER BY
			games_won DESC,
			games_won::float / games_played DESC,
			dice_lost ASC,
			player_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var records []*entities.PlayerRecord
	for rows.Next() {
		record, err := scanPlayerRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return records, nil
}

func scanPlayerRecord(row pgx.Row) (*entities.PlayerRecord, error) {
	var record entities.PlayerRecord
	err := row.Scan(
		&record.PlayerID,
		&record.DisplayName,
		&record.GamesPlayed,
		&record.GamesWon,
		&record.ChallengesMade,
		&record.ChallengesWon,
		&record.DiceLost,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
