package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"servicepro/internal/domain"
)

const sessionFilename = "session.json"

// sessionFile is the on-disk layout: the token key holds an encrypted blob,
// the user key the plain record.
type sessionFile struct {
	Token json.RawMessage    `json:"token,omitempty"`
	User  *domain.UserRecord `json:"user,omitempty"`
}

// SessionFileStore persists the auth token and last-known user record.
//
// Both keys live in one file replaced by rename, so a save either lands
// completely or not at all. The loaded session is cached; the file is only
// read again after the process restarts.
type SessionFileStore struct {
	dir     string
	secret  string
	n, r, p int

	mu     sync.Mutex
	cached *domain.Session
}

// Option configures a SessionFileStore.
type Option func(*SessionFileStore)

// WithScryptParams overrides the key-derivation cost. Tests use small values.
func WithScryptParams(N, r, p int) Option {
	return func(s *SessionFileStore) { s.n, s.r, s.p = N, r, p }
}

// NewSessionFileStore returns a SessionFileStore rooted at dir. The token is
// sealed with a key derived from secret.
func NewSessionFileStore(dir, secret string, opts ...Option) *SessionFileStore {
	s := &SessionFileStore{dir: dir, secret: secret}
	s.n, s.r, s.p = scryptParamsDefault()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveSession writes token and user in a single replace.
func (s *SessionFileStore) SaveSession(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f sessionFile
	if session.HasToken() {
		sealed, err := encrypt(s.secret, []byte(session.Token), s.n, s.r, s.p)
		if err != nil {
			return err
		}
		f.Token = sealed
	}
	f.User = session.User

	if err := writeJSON(filepath.Join(s.dir, sessionFilename), f, 0o600); err != nil {
		return err
	}
	s.cached = &session
	return nil
}

// LoadSession returns the persisted session. A missing file is a logged-out
// session, not an error.
func (s *SessionFileStore) LoadSession() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	var f sessionFile
	if err := readJSON(filepath.Join(s.dir, sessionFilename), &f); err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{User: f.User}
	if len(f.Token) > 0 {
		raw, err := decrypt(s.secret, f.Token)
		if err != nil {
			return domain.Session{}, err
		}
		session.Token = domain.Token(raw)
	}
	s.cached = &session
	return session, nil
}

// ClearSession removes both keys. Clearing an empty store is a no-op. The
// in-memory copy is dropped even if the file cannot be removed, so the token
// is never handed out again by this process.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &domain.Session{}
	err := os.Remove(filepath.Join(s.dir, sessionFilename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token returns the current bearer token. Unreadable state counts as no token.
func (s *SessionFileStore) Token() (domain.Token, bool) {
	session, err := s.LoadSession()
	if err != nil || !session.HasToken() {
		return "", false
	}
	return session.Token, true
}

// Compile-time assertions that SessionFileStore implements the domain contracts.
var (
	_ domain.SessionStore = (*SessionFileStore)(nil)
	_ domain.TokenSource  = (*SessionFileStore)(nil)
)
