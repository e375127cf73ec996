package interfaces

import (
	"context"

	domaintypes "servicepro/internal/domain/types"
)

// Dispatcher executes one logical API call.
type Dispatcher interface {
	Send(ctx context.Context, req domaintypes.Request) (domaintypes.Outcome, error)
}

// SessionExpirer is told when the backend rejects the current credentials.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// ConnectivityGate is consulted before any request leaves the device.
type ConnectivityGate interface {
	IsOnline() bool
}

// SessionService orchestrates login and logout.
type SessionService interface {
	Login(ctx context.Context, user *domaintypes.UserRecord, token domaintypes.Token) error
	Logout(ctx context.Context)
	User() *domaintypes.UserRecord
}
