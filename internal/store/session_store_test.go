package store_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"servicepro/internal/domain"
	"servicepro/internal/store"
)

// Small scrypt cost keeps the tests fast.
func newSessionStore(dir, secret string) *store.SessionFileStore {
	return store.NewSessionFileStore(dir, secret, store.WithScryptParams(1<<10, 8, 1))
}

func TestSession_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ss domain.SessionStore = newSessionStore(home, "secret")

	user := &domain.UserRecord{ID: "u1", Name: "Asha", DOB: "1990-01-01", KYC: &domain.KYC{Status: domain.KYCApproved}}
	if err := ss.SaveSession(domain.Session{Token: "tok-123", User: user}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	// A fresh store reads from disk rather than the cache.
	got, err := newSessionStore(home, "secret").LoadSession()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.Token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", got.Token)
	}
	if got.User == nil || got.User.ID != "u1" || got.User.KYC.Status != domain.KYCApproved {
		t.Fatalf("user mismatch after load: %+v", got.User)
	}
}

func TestSession_Missing_IsLoggedOut(t *testing.T) {
	ss := newSessionStore(t.TempDir(), "secret")

	got, err := ss.LoadSession()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.HasToken() || got.User != nil {
		t.Fatalf("expected empty session, got %+v", got)
	}
	if _, ok := ss.Token(); ok {
		t.Fatal("expected no token")
	}
}

func TestSession_EmptyFile_IsLoggedOut(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "session.json"), nil, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := newSessionStore(home, "secret").LoadSession()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.HasToken() || got.User != nil {
		t.Fatalf("expected empty session, got %+v", got)
	}
}

func TestSession_NewerTokenBlob_Rejected(t *testing.T) {
	home := t.TempDir()
	if err := newSessionStore(home, "secret").SaveSession(domain.Session{Token: "t"}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	path := filepath.Join(home, "session.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var f map[string]map[string]any
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("decode file: %v", err)
	}
	f["token"]["v"] = 2
	raw, err = json.Marshal(f)
	if err != nil {
		t.Fatalf("encode file: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err = newSessionStore(home, "secret").LoadSession()
	if err == nil || !strings.Contains(err.Error(), "unsupported token blob version 2") {
		t.Fatalf("err = %v, want unsupported token blob version", err)
	}
}

func TestSession_TokenEncryptedAtRest(t *testing.T) {
	home := t.TempDir()
	ss := newSessionStore(home, "secret")

	if err := ss.SaveSession(domain.Session{Token: "plain-bearer-token"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(home, "session.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if bytes.Contains(raw, []byte("plain-bearer-token")) {
		t.Fatal("token stored in clear text")
	}
	info, err := os.Stat(filepath.Join(home, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}
}

func TestSession_WrongSecret_Fails(t *testing.T) {
	home := t.TempDir()
	if err := newSessionStore(home, "correct").SaveSession(domain.Session{Token: "t"}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	other := newSessionStore(home, "wrong")
	if _, err := other.LoadSession(); err == nil {
		t.Fatal("expected error with wrong secret")
	}
	if _, ok := other.Token(); ok {
		t.Fatal("unreadable session must not yield a token")
	}
}

func TestSession_Clear(t *testing.T) {
	home := t.TempDir()
	ss := newSessionStore(home, "secret")

	if err := ss.SaveSession(domain.Session{Token: "t", User: &domain.UserRecord{ID: "u1"}}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := ss.ClearSession(); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok := ss.Token(); ok {
		t.Fatal("token survived clear")
	}
	if _, err := os.Stat(filepath.Join(home, "session.json")); !os.IsNotExist(err) {
		t.Fatalf("session file still present: %v", err)
	}

	// Clearing again is a no-op.
	if err := ss.ClearSession(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	got, err := newSessionStore(home, "secret").LoadSession()
	if err != nil || got.HasToken() || got.User != nil {
		t.Fatalf("expected empty session after clear, got %+v (%v)", got, err)
	}
}

func TestSession_SaveWithoutToken_KeepsUser(t *testing.T) {
	home := t.TempDir()
	ss := newSessionStore(home, "secret")

	if err := ss.SaveSession(domain.Session{User: &domain.UserRecord{ID: "u1"}}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, err := newSessionStore(home, "secret").LoadSession()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.HasToken() {
		t.Fatal("unexpected token")
	}
	if got.User == nil || got.User.ID != "u1" {
		t.Fatalf("user = %+v", got.User)
	}
}
