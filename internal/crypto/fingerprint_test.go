package crypto_test

import (
	"testing"

	"servicepro/internal/crypto"
)

func TestFingerprint(t *testing.T) {
	a := crypto.Fingerprint([]byte("token-a"))
	if len(a) != 12 {
		t.Fatalf("len = %d, want 12", len(a))
	}
	if a != crypto.Fingerprint([]byte("token-a")) {
		t.Fatal("fingerprint not deterministic")
	}
	if a == crypto.Fingerprint([]byte("token-b")) {
		t.Fatal("distinct secrets share a fingerprint")
	}
	if got := crypto.Fingerprint(nil); got != "" {
		t.Fatalf("empty secret fingerprint = %q", got)
	}
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	crypto.Wipe(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d after wipe", i, v)
		}
	}
}
