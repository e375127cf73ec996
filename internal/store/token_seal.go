package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"servicepro/internal/crypto"
)

// tokenBlobVersion is the newest sealed-token format this build reads.
const tokenBlobVersion = 1

// errWrongSecret means the token blob did not open: the store secret changed
// or the session file was tampered with.
var errWrongSecret = errors.New("wrong store secret or corrupted session")

// blob is the sealed auth token as written under the session file's token
// key, together with the scrypt parameters needed to reopen it.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// encrypt seals the token bytes under a key derived from secret.
func encrypt(secret string, raw []byte, N, r, p int) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:] /* #nosec G404 */); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(secret), salt[:], N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte // zero nonce; every seal uses a fresh salt and so a fresh key
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      tokenBlobVersion,
		Salt:   salt[:],
		N:      N,
		R:      r,
		P:      p,
		Cipher: ct,
	})
}

// decrypt reopens a token blob written by encrypt.
func decrypt(secret string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > tokenBlobVersion {
		return nil, fmt.Errorf("unsupported token blob version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(secret), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongSecret
	}
	return pt, nil
}

// scryptParamsDefault is the key-derivation cost used outside tests.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
