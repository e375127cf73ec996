package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicepro/internal/api"
	"servicepro/internal/connectivity"
	"servicepro/internal/domain"
	"servicepro/internal/notify"
	"servicepro/internal/services/session"
	"servicepro/internal/store"
)

type liveSession struct {
	svc        *session.Service
	dispatcher *api.Dispatcher
	sessions   *store.SessionFileStore
}

// newLiveSession wires a real dispatcher and file store against handler and
// logs in with token "stale".
func newLiveSession(t *testing.T, handler http.HandlerFunc) *liveSession {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log, _ := test.NewNullLogger()
	rec := &notify.Recorder{}
	home := t.TempDir()
	sessions := store.NewSessionFileStore(home, "secret", store.WithScryptParams(1<<10, 8, 1))
	dispatcher := api.New(api.Config{BaseURL: srv.URL}, api.Deps{
		Gate:     connectivity.New(rec, log),
		Tokens:   sessions,
		Devices:  store.NewDeviceFileStore(home),
		Notifier: rec,
		Log:      log,
	})
	svc := session.New(sessions, dispatcher, rec, log, endpoints)
	dispatcher.BindSession(svc)

	require.NoError(t, svc.Login(context.Background(), &domain.UserRecord{ID: "u1"}, "stale"))
	return &liveSession{svc: svc, dispatcher: dispatcher, sessions: sessions}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"jwt expired"}`))
}

func okJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"success":true}`))
}

// A 401 tears the session down once, even though the server logout call
// itself is answered with another 401.
func TestUnauthorizedResponseLogsOutOnce(t *testing.T) {
	var logouts atomic.Int32
	ls := newLiveSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			logouts.Add(1)
		}
		unauthorized(w)
	})

	var users []*domain.UserRecord
	ls.svc.OnUser(func(u *domain.UserRecord) { users = append(users, u) })

	_, err := ls.svc.RefreshProfile(context.Background())
	require.ErrorIs(t, err, api.ErrAuthExpired)

	assert.Equal(t, int32(1), logouts.Load())
	assert.Nil(t, ls.svc.User())
	_, ok := ls.sessions.Token()
	assert.False(t, ok)
	require.Len(t, users, 1)
	assert.Nil(t, users[0])

	// No token: the next call carries no Authorization header and no logout
	// is attempted.
	_, err = ls.dispatcher.Send(context.Background(), domain.Request{Endpoint: "/user/profile"})
	require.ErrorIs(t, err, api.ErrAuthExpired)
	assert.Equal(t, int32(1), logouts.Load())
}

// A host logout issued while a 401 teardown is still talking to the server
// does not return until the token is gone.
func TestLogoutWaitsForRunningTeardown(t *testing.T) {
	logoutEntered := make(chan struct{})
	release := make(chan struct{})
	var (
		logouts atomic.Int32
		mu      sync.Mutex
		auth    = map[string]string{}
	)
	ls := newLiveSession(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth[r.URL.Path] = r.Header.Get("Authorization")
		mu.Unlock()
		switch r.URL.Path {
		case "/a":
			unauthorized(w)
		case "/auth/logout":
			logouts.Add(1)
			close(logoutEntered)
			<-release
			okJSON(w)
		default:
			okJSON(w)
		}
	})

	sendDone := make(chan error, 1)
	go func() {
		_, err := ls.dispatcher.Send(context.Background(), domain.Request{Endpoint: "/a"})
		sendDone <- err
	}()
	<-logoutEntered

	hostDone := make(chan struct{})
	go func() {
		ls.svc.Logout(context.Background())
		close(hostDone)
	}()

	select {
	case <-hostDone:
		t.Fatal("Logout returned while the running logout had not cleared the session")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	<-hostDone
	_, ok := ls.sessions.Token()
	assert.False(t, ok)
	require.ErrorIs(t, <-sendDone, api.ErrAuthExpired)

	_, err := ls.dispatcher.Send(context.Background(), domain.Request{Endpoint: "/c"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer stale", auth["/a"])
	assert.Equal(t, "", auth["/c"])
	assert.Equal(t, int32(1), logouts.Load())
}

// Two in-flight requests rejected together: each caller sees the session
// cleared by the time its call returns, and the server is told once.
func TestConcurrentUnauthorizedResponses(t *testing.T) {
	var (
		arrived sync.WaitGroup
		logouts atomic.Int32
	)
	arrived.Add(2)
	release := make(chan struct{})
	ls := newLiveSession(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			logouts.Add(1)
			okJSON(w)
			return
		}
		arrived.Done()
		<-release
		unauthorized(w)
	})

	cleared := make(chan bool, 2)
	for _, path := range []string{"/a", "/b"} {
		path := path
		go func() {
			_, err := ls.dispatcher.Send(context.Background(), domain.Request{Endpoint: path})
			assert.ErrorIs(t, err, api.ErrAuthExpired)
			_, ok := ls.sessions.Token()
			cleared <- !ok
		}()
	}
	arrived.Wait()
	close(release)

	assert.True(t, <-cleared)
	assert.True(t, <-cleared)
	assert.Equal(t, int32(1), logouts.Load())
	assert.Nil(t, ls.svc.User())
}
