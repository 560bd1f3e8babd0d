package service

import (
	"time"

	"roulette/models"

	log "github.com/sirupsen/logrus"
)

// ApplyPrize computes the user's premium state after winning a prize. It never
// shortens an entitlement: minute grants stack on top of an unexpired expiry,
// grants after expiry start fresh from now, and a lifetime grant (nil minutes)
// is permanent. Once lifetime is held, later minute grants cannot turn it back
// into a finite expiry.
func ApplyPrize(user *models.User, prize models.PrizeDefinition, now time.Time) (isPremium bool, expiresAt *time.Time) {
	if user.HasLifetimePremium() {
		// Lifetime is sticky regardless of what was won
		return true, nil
	}

	if prize.IsLifetime() {
		log.WithFields(log.Fields{
			"userID":  user.ID,
			"prizeID": prize.ID,
		}).Info("Lifetime premium granted")
		return true, nil
	}

	if *prize.Minutes == 0 {
		return user.IsPremium, user.PremiumExpiresAt
	}

	base := now
	if user.PremiumExpiresAt != nil && user.PremiumExpiresAt.After(now) {
		base = *user.PremiumExpiresAt
	}
	newExpiry := base.Add(time.Duration(*prize.Minutes) * time.Minute)
	return true, &newExpiry
}
