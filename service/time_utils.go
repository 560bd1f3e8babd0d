package service

import (
	"time"
)

// The daily reset is anchored to calendar days in UTC. Server-local time would
// make the reset instant depend on deployment geography.

// StartOfDayUTC returns midnight UTC of the day containing t.
func StartOfDayUTC(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// NextResetTime returns the next instant the daily allowance replenishes.
func NextResetTime(t time.Time) time.Time {
	return StartOfDayUTC(t).AddDate(0, 0, 1)
}
