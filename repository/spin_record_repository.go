package repository

import (
	"context"
	"fmt"

	"roulette/database"
	"roulette/models"
)

// SpinRecordRepository implements the service.SpinRecordRepository interface
type SpinRecordRepository struct {
	q queryable
}

// NewSpinRecordRepository creates a new spin record repository
func NewSpinRecordRepository(db *database.DB) *SpinRecordRepository {
	return &SpinRecordRepository{q: db.Pool}
}

// newSpinRecordRepositoryWithTx creates a new spin record repository with a transaction
func newSpinRecordRepositoryWithTx(tx queryable) *SpinRecordRepository {
	return &SpinRecordRepository{q: tx}
}

// Create appends an immutable spin record
func (r *SpinRecordRepository) Create(ctx context.Context, record *models.SpinRecord) error {
	query := `
		INSERT INTO spin_records (user_id, roulette_type, prize_id, prize_minutes, spun_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, spun_at
	`

	err := r.q.QueryRow(ctx, query,
		record.UserID,
		record.RouletteType,
		record.PrizeID,
		record.PrizeMinutes,
		record.SpunAt,
	).Scan(&record.ID, &record.SpunAt)

	if err != nil {
		return fmt.Errorf("failed to create spin record for user %s: %w", record.UserID, err)
	}

	return nil
}

// GetRecentByUser returns up to limit records for the user and type, most
// recent first. The id tiebreak keeps insertion order stable among records
// with identical timestamps.
func (r *SpinRecordRepository) GetRecentByUser(ctx context.Context, userID string, rouletteType models.RouletteType, limit int) ([]*models.SpinRecord, error) {
	query := `
		SELECT id, user_id, roulette_type, prize_id, prize_minutes, spun_at
		FROM spin_records
		WHERE user_id = $1 AND roulette_type = $2
		ORDER BY spun_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, rouletteType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get spin records for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []*models.SpinRecord
	for rows.Next() {
		var record models.SpinRecord
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.RouletteType,
			&record.PrizeID,
			&record.PrizeMinutes,
			&record.SpunAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spin record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spin records: %w", err)
	}

	return records, nil
}
