package app_test

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicepro/internal/app"
	"servicepro/internal/domain"
	"servicepro/internal/mockapi"
	"servicepro/internal/notify"
	"servicepro/internal/services/profile"
	"servicepro/internal/store"
)

type recordingNavigator struct {
	mu     sync.Mutex
	resets []domain.Screen
	pushes []domain.Screen
}

func (n *recordingNavigator) NavigateTo(s domain.Screen, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, s)
}

func (n *recordingNavigator) ResetTo(s domain.Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, s)
}

func (n *recordingNavigator) GoBack() {}

func newWire(t *testing.T, baseURL, home string) (*app.Wire, *notify.Recorder) {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.Home = home
	cfg.BaseURL = baseURL
	rec := &notify.Recorder{}
	w, err := app.NewWire(cfg,
		app.WithNotifier(rec),
		app.WithLogOutput(io.Discard),
		app.WithStoreOptions(store.WithScryptParams(1<<10, 8, 1)),
	)
	require.NoError(t, err)
	return w, rec
}

func TestWire_OnboardingFlowAgainstMockBackend(t *testing.T) {
	log, _ := test.NewNullLogger()
	backend, err := mockapi.New(mockapi.Options{Log: log})
	require.NoError(t, err)
	seeded, err := backend.AddUser(domain.UserRecord{Phone: "999"}, "pw")
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	home := t.TempDir()
	w, rec := newWire(t, srv.URL, home)
	nav := &recordingNavigator{}
	w.BindNavigator(nav)
	ctx := context.Background()

	decision, err := w.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenIntro, decision.Screen)

	_, err = w.Session.Authenticate(ctx, domain.Credentials{Phone: "999", Password: "pw"})
	require.NoError(t, err)
	assert.Contains(t, rec.Titles(), "Login Successful")
	assert.Equal(t, domain.ScreenProfileUpdate, w.Decide().Screen)

	_, err = w.Profile.UpdateProfile(ctx, profile.ProfileForm{Name: "Asha", DOB: "1990-01-01"})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenKYC, w.Decide().Screen)

	_, err = w.Profile.SubmitKYC(ctx, profile.KYCForm{DocumentType: "pan", DocumentNumber: "X1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenKYCStatus, w.Decide().Screen)

	_, err = backend.SetKYC(seeded.ID, domain.KYCApproved, "")
	require.NoError(t, err)
	_, err = w.Session.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Decision{Screen: domain.ScreenProviderDashboard, AllowBack: true}, w.Decide())

	_, err = w.Profile.ScheduleTraining(ctx, "2026-11-01", "am")
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenTrainingStatus, w.Decide().Screen)

	nav.mu.Lock()
	assert.Equal(t, []domain.Screen{
		domain.ScreenIntro, // restore found nobody
		domain.ScreenProfileUpdate,
		domain.ScreenKYC,
		domain.ScreenKYCStatus,
		domain.ScreenTrainingStatus,
	}, nav.resets)
	assert.Equal(t, []domain.Screen{domain.ScreenProviderDashboard}, nav.pushes)
	nav.mu.Unlock()

	// A second process restores the persisted session.
	again, _ := newWire(t, srv.URL, home)
	decision, err = again.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ScreenTrainingStatus, decision.Screen)

	w.Session.Logout(ctx)
	assert.Equal(t, domain.ScreenIntro, w.Decide().Screen)

	// The other process still holds the revoked token; its next call is a
	// 401 that logs it out.
	_, err = again.Session.RefreshProfile(ctx)
	require.Error(t, err)
	assert.Nil(t, again.Session.User())
}
