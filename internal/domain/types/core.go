package types

// DeviceID is the stable per-installation identifier sent with every request.
type DeviceID string

// String returns the string form of the device id.
func (d DeviceID) String() string { return string(d) }

// Token is the opaque bearer credential issued by the backend.
type Token string

// String returns the string form of the token.
func (t Token) String() string { return string(t) }
