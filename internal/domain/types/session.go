package types

// Session is the persisted authentication state. An empty Token means the
// device is logged out.
type Session struct {
	Token Token       `json:"token,omitempty"`
	User  *UserRecord `json:"user,omitempty"`
}

// HasToken reports whether the session carries a bearer token.
func (s Session) HasToken() bool { return s.Token != "" }

// Credentials are submitted to the login endpoint.
type Credentials struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}
