package models

import (
	"time"
)

// SpinRecord is the immutable audit entry written once per successful spin.
// Records are never updated or deleted.
type SpinRecord struct {
	ID           int64        `db:"id"`
	UserID       string       `db:"user_id"`
	RouletteType RouletteType `db:"roulette_type"`
	PrizeID      string       `db:"prize_id"`
	PrizeMinutes *int         `db:"prize_minutes"`
	SpunAt       time.Time    `db:"spun_at"`
}
