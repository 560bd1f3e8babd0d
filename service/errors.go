package service

import (
	"errors"
)

// Sentinel errors for the failure modes callers are expected to branch on.
// Everything else (persistence failures in particular) is wrapped with %w and
// surfaced generically by the transport layer.
var (
	// ErrUnauthenticated means the request carried no verified user identity.
	ErrUnauthenticated = errors.New("unauthenticated user")

	// ErrInvalidRouletteType means the type selector was not "daily" or "premium".
	ErrInvalidRouletteType = errors.New("invalid roulette type")

	// ErrNoTokensAvailable means the token reservation found a zero balance.
	ErrNoTokensAvailable = errors.New("no spin tokens available")

	// ErrUserNotFound means the authenticated identity has no backing user
	// record. The auth layer should never hand these out, so this is treated
	// as an internal fault rather than a caller mistake.
	ErrUserNotFound = errors.New("user not found")
)
