package interfaces

import domaintypes "servicepro/internal/domain/types"

// SessionStore persists the token and last-known user record. Both keys are
// written together; absence of either is a valid logged-out state.
type SessionStore interface {
	SaveSession(session domaintypes.Session) error
	LoadSession() (domaintypes.Session, error)
	ClearSession() error
}

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token() (domaintypes.Token, bool)
}

// DeviceStore hands out the stable per-installation device id.
type DeviceStore interface {
	DeviceID() (domaintypes.DeviceID, error)
}
