package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"servicepro/internal/domain"
)

// LoginTitle is the notification shown after a successful login.
const LoginTitle = "Login Successful"

var (
	// ErrEmptyToken is returned when Login is given no token.
	ErrEmptyToken = errors.New("login requires a token")
	// ErrNotLoggedIn is returned by operations that need an active session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrLoginRejected is returned when the backend refuses the credentials.
	ErrLoginRejected = errors.New("login rejected")
)

// Endpoints names the backend routes the lifecycle calls.
type Endpoints struct {
	Login   string
	Logout  string
	Profile string
}

// Service orchestrates login, logout and profile refresh.
//
// The store is the source of truth for authentication: the dispatcher reads
// the token from it on every call, and this service is the only writer.
type Service struct {
	store     domain.SessionStore
	api       domain.Dispatcher
	notifier  domain.Notifier
	log       logrus.FieldLogger
	endpoints Endpoints
	now       func() time.Time

	// persistMu serialises writes to the store so a refresh can never
	// resurrect a session a concurrent logout just cleared.
	persistMu sync.Mutex

	mu         sync.Mutex
	user       *domain.UserRecord
	logoutDone chan struct{} // non-nil while a logout is running
	listeners  []func(*domain.UserRecord)
}

// logoutKey marks the context of the server logout call, so a 401 answering
// that call does not start another logout.
type logoutKey struct{}

func withinLogout(ctx context.Context) bool {
	v, _ := ctx.Value(logoutKey{}).(bool)
	return v
}

// New constructs a session Service.
func New(
	store domain.SessionStore,
	api domain.Dispatcher,
	notifier domain.Notifier,
	log logrus.FieldLogger,
	endpoints Endpoints,
) *Service {
	return &Service{
		store:     store,
		api:       api,
		notifier:  notifier,
		log:       log.WithField("component", "session"),
		endpoints: endpoints,
		now:       time.Now,
	}
}

// OnUser registers fn to receive every user change, including nil on logout.
func (s *Service) OnUser(fn func(*domain.UserRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// User returns the in-memory user, or nil when logged out.
func (s *Service) User() *domain.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login persists token and user together and makes user current.
func (s *Service) Login(ctx context.Context, user *domain.UserRecord, token domain.Token) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.persistMu.Lock()
	err := s.store.SaveSession(domain.Session{Token: token, User: user})
	if err != nil {
		// A half-written session is worse than none.
		if cerr := s.store.ClearSession(); cerr != nil {
			s.log.WithError(cerr).Error("clear after failed login write")
		}
	}
	s.persistMu.Unlock()
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.setUser(user)
	s.notifier.Notify(domain.Notification{Type: domain.NotifySuccess, Title: LoginTitle})
	s.log.Info("logged in")
	return nil
}

// Authenticate posts creds to the login endpoint and logs in with the token
// and user found under data.token and data.user.
func (s *Service) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error) {
	payload := map[string]any{"password": creds.Password}
	if creds.Phone != "" {
		payload["phone"] = creds.Phone
	}
	if creds.Email != "" {
		payload["email"] = creds.Email
	}

	out, err := s.api.Send(ctx, domain.Request{
		Payload:  payload,
		Endpoint: s.endpoints.Login,
		Method:   http.MethodPost,
		Options:  domain.RequestOptions{ShowLoader: true, ShowErrorMessage: true},
	})
	if err != nil {
		return nil, err
	}
	if out.Kind != domain.OutcomeSuccess || !out.Payload.Success() {
		return nil, fmt.Errorf("%w: %s", ErrLoginRejected, out.Payload.Message())
	}

	token := domain.Token(out.Payload.Get("data.token").String())
	var user domain.UserRecord
	if err := out.Payload.Decode("data.user", &user); err != nil {
		return nil, fmt.Errorf("decode login user: %w", err)
	}
	if err := s.Login(ctx, &user, token); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout calls the server logout endpoint on a best-effort basis, then clears
// the persisted and in-memory session. It is safe without a session. A call
// made while another logout is running waits for that logout to finish, so
// the token is gone whenever Logout returns.
func (s *Service) Logout(ctx context.Context) {
	if withinLogout(ctx) {
		// The server logout call itself was rejected; the logout that made it
		// clears the session.
		return
	}

	s.mu.Lock()
	if running := s.logoutDone; running != nil {
		s.mu.Unlock()
		<-running
		return
	}
	done := make(chan struct{})
	s.logoutDone = done
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.logoutDone = nil
		s.mu.Unlock()
		close(done)
	}()

	session, err := s.store.LoadSession()
	if err != nil {
		s.log.WithError(err).Warn("load session before logout")
	}
	if session.HasToken() && s.endpoints.Logout != "" {
		// The server call must not be cut short by the caller that noticed
		// the expiry; the dispatcher still bounds it with its own timeout.
		callCtx := context.WithValue(context.WithoutCancel(ctx), logoutKey{}, true)
		_, err := s.api.Send(callCtx, domain.Request{
			Endpoint: s.endpoints.Logout,
			Method:   http.MethodPost,
		})
		if err != nil {
			s.log.WithError(err).Debug("server logout failed, clearing locally")
		}
	}

	s.persistMu.Lock()
	if err := s.store.ClearSession(); err != nil {
		s.log.WithError(err).Error("clear session")
	}
	s.persistMu.Unlock()

	s.setUser(nil)
	s.log.Info("logged out")
}

// Expire is called when the backend answers 401.
func (s *Service) Expire(ctx context.Context) {
	s.log.Warn("session rejected by server")
	s.Logout(ctx)
}

// Restore loads the persisted session at start-up. A session without a token
// restores nobody; a JWT past its exp is cleared.
func (s *Service) Restore(ctx context.Context) (*domain.UserRecord, error) {
	session, err := s.store.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.HasToken() {
		s.setUser(nil)
		return nil, nil
	}
	if tokenExpired(session.Token, s.now()) {
		s.log.Info("persisted token expired, clearing session")
		s.persistMu.Lock()
		err := s.store.ClearSession()
		s.persistMu.Unlock()
		s.setUser(nil)
		if err != nil {
			return nil, fmt.Errorf("clear expired session: %w", err)
		}
		return nil, nil
	}
	s.setUser(session.User)
	return session.User, nil
}

// RefreshProfile fetches the current user and stores it alongside the token.
func (s *Service) RefreshProfile(ctx context.Context) (*domain.UserRecord, error) {
	out, err := s.api.Send(ctx, domain.Request{
		Endpoint: s.endpoints.Profile,
		Method:   http.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	if out.Kind != domain.OutcomeSuccess {
		return nil, fmt.Errorf("refresh profile: %s: %s", out.Kind, out.Payload.Message())
	}
	var user domain.UserRecord
	if err := out.Payload.Decode("data", &user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := s.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces the stored user while keeping the token.
func (s *Service) UpdateUser(ctx context.Context, user *domain.UserRecord) error {
	s.persistMu.Lock()
	session, err := s.store.LoadSession()
	if err == nil && !session.HasToken() {
		err = ErrNotLoggedIn
	}
	if err == nil {
		session.User = user
		err = s.store.SaveSession(session)
	}
	s.persistMu.Unlock()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.setUser(user)
	return nil
}

func (s *Service) setUser(user *domain.UserRecord) {
	s.mu.Lock()
	s.user = user
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

// Compile-time assertions that Service implements the domain contracts.
var (
	_ domain.SessionService = (*Service)(nil)
	_ domain.SessionExpirer = (*Service)(nil)
)
