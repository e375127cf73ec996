package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"servicepro/internal/api"
	"servicepro/internal/domain"
	"servicepro/internal/notify"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

type fakeGate struct{ offline atomic.Bool }

func (g *fakeGate) IsOnline() bool { return !g.offline.Load() }

type fakeTokens struct {
	mu    sync.Mutex
	token domain.Token
}

func (f *fakeTokens) Token() (domain.Token, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) set(t domain.Token) {
	f.mu.Lock()
	f.token = t
	f.mu.Unlock()
}

type fakeDevice struct{}

func (fakeDevice) DeviceID() (domain.DeviceID, error) { return "dev-1", nil }

type countingExpirer struct{ n atomic.Int32 }

func (e *countingExpirer) Expire(context.Context) { e.n.Add(1) }

type fixture struct {
	srv     *httptest.Server
	api     *api.Dispatcher
	rec     *notify.Recorder
	gate    *fakeGate
	tokens  *fakeTokens
	expirer *countingExpirer
	hits    atomic.Int32
}

func newFixture(t *testing.T, handler http.HandlerFunc, tweak ...func(*api.Config)) *fixture {
	t.Helper()
	f := &fixture{
		rec:     &notify.Recorder{},
		gate:    &fakeGate{},
		tokens:  &fakeTokens{},
		expirer: &countingExpirer{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)

	cfg := api.Config{BaseURL: f.srv.URL, Timeout: 2 * time.Second, Now: func() time.Time { return fixedNow }}
	for _, fn := range tweak {
		fn(&cfg)
	}
	log, _ := test.NewNullLogger()
	f.api = api.New(cfg, api.Deps{
		Gate:     f.gate,
		Tokens:   f.tokens,
		Devices:  fakeDevice{},
		Notifier: f.rec,
		Log:      log,
	})
	f.api.BindSession(f.expirer)
	return f
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
