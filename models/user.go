package models

import (
	"time"
)

// User holds the per-user entitlement state this service owns: spin token
// balances, the daily-reset marker, and the premium-access fields.
type User struct {
	ID               string     `db:"id"`
	DailyTokens      int        `db:"daily_tokens"`
	PremiumTokens    int        `db:"premium_tokens"`
	LastDailyReset   *time.Time `db:"last_daily_reset"`
	IsPremium        bool       `db:"is_premium"`
	PremiumExpiresAt *time.Time `db:"premium_expires_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// HasLifetimePremium reports whether the user holds a permanent premium grant.
// A nil expiry only means lifetime while IsPremium is set; nil with IsPremium
// false is just the default non-premium state.
func (u *User) HasLifetimePremium() bool {
	return u.IsPremium && u.PremiumExpiresAt == nil
}

// PremiumActiveAt reports whether premium access is in effect at the given instant.
func (u *User) PremiumActiveAt(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}

// Tokens returns the spin-token balance for the given roulette type.
func (u *User) Tokens(rouletteType RouletteType) int {
	if rouletteType == RouletteTypePremium {
		return u.PremiumTokens
	}
	return u.DailyTokens
}
