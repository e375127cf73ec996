package mockapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"servicepro/internal/domain"
)

// DefaultTokenTTL bounds issued tokens when Options.TokenTTL is zero.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrUnknownUser is returned by admin operations for a missing id.
	ErrUnknownUser = errors.New("unknown user")
	// ErrDuplicateUser is returned when a phone or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	errBadToken      = errors.New("invalid token")
)

// Options configure a Server.
type Options struct {
	Secret   []byte        // HS256 key; random when empty
	TokenTTL time.Duration // defaults to DefaultTokenTTL
	Log      logrus.FieldLogger
	Now      func() time.Time
}

type account struct {
	user domain.UserRecord
	hash []byte
}

// Server holds users and issued tokens.
type Server struct {
	secret []byte
	ttl    time.Duration
	log    logrus.FieldLogger
	now    func() time.Time

	mu       sync.RWMutex
	accounts map[string]*account // by user id
	byLogin  map[string]string   // phone or email -> user id
	revoked  map[string]struct{} // token ids
}

// New returns an empty Server.
func New(opts Options) (*Server, error) {
	s := &Server{
		secret:   opts.Secret,
		ttl:      opts.TokenTTL,
		log:      opts.Log,
		now:      opts.Now,
		accounts: make(map[string]*account),
		byLogin:  make(map[string]string),
		revoked:  make(map[string]struct{}),
	}
	if len(s.secret) == 0 {
		s.secret = make([]byte, 32)
		if _, err := rand.Read(s.secret); err != nil {
			return nil, fmt.Errorf("token secret: %w", err)
		}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTokenTTL
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// AddUser registers user with password. An empty ID is assigned.
func (s *Server) AddUser(user domain.UserRecord, password string) (domain.UserRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("hash password: %w", err)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, login := range []string{user.Phone, user.Email} {
		if _, taken := s.byLogin[login]; login != "" && taken {
			return domain.UserRecord{}, fmt.Errorf("%w: %s", ErrDuplicateUser, login)
		}
	}
	s.accounts[user.ID] = &account{user: user, hash: hash}
	for _, login := range []string{user.Phone, user.Email} {
		if login != "" {
			s.byLogin[login] = user.ID
		}
	}
	return cloneUser(user), nil
}

// User returns a copy of the stored record.
func (s *Server) User(id string) (domain.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.UserRecord{}, false
	}
	return cloneUser(a.user), true
}

// SetKYC records a review decision for user id.
func (s *Server) SetKYC(id string, status domain.KYCStatus, remarks string) (domain.UserRecord, error) {
	return s.update(id, func(u *domain.UserRecord) error {
		u.KYC = &domain.KYC{Status: status, Remarks: remarks, UpdatedAt: s.now().UTC().Format(time.RFC3339)}
		return nil
	})
}

// SetTraining records a training decision for user id.
func (s *Server) SetTraining(id string, status domain.TrainingStatus) (domain.UserRecord, error) {
	return s.update(id, func(u *domain.UserRecord) error {
		if u.TrainingScheduleSubmit == nil {
			u.TrainingScheduleSubmit = &domain.TrainingSubmission{}
		}
		u.TrainingScheduleSubmit.Status = status
		return nil
	})
}

func (s *Server) update(id string, fn func(*domain.UserRecord) error) (domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.UserRecord{}, fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	if err := fn(&a.user); err != nil {
		return domain.UserRecord{}, err
	}
	return cloneUser(a.user), nil
}

// authenticate checks a login and password pair.
func (s *Server) authenticate(login, password string) (domain.UserRecord, bool) {
	s.mu.RLock()
	id, ok := s.byLogin[login]
	var a *account
	if ok {
		a = s.accounts[id]
	}
	s.mu.RUnlock()
	if a == nil || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return domain.UserRecord{}, false
	}
	return s.User(id)
}

// issue signs a token for user id.
func (s *Server) issue(id string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// verify returns the claims of a valid, unrevoked token.
func (s *Server) verify(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadToken, err)
	}

	s.mu.RLock()
	_, revoked := s.revoked[claims.ID]
	_, known := s.accounts[claims.Subject]
	s.mu.RUnlock()
	if revoked || !known {
		return nil, errBadToken
	}
	return claims, nil
}

func (s *Server) revoke(tokenID string) {
	s.mu.Lock()
	s.revoked[tokenID] = struct{}{}
	s.mu.Unlock()
}

func cloneUser(u domain.UserRecord) domain.UserRecord {
	if u.KYC != nil {
		k := *u.KYC
		u.KYC = &k
	}
	if u.TrainingScheduleSubmit != nil {
		t := *u.TrainingScheduleSubmit
		u.TrainingScheduleSubmit = &t
	}
	if p, ok := u.Profile.(map[string]any); ok {
		cp := make(map[string]any, len(p))
		for k, v := range p {
			cp[k] = v
		}
		u.Profile = cp
	}
	return u
}
