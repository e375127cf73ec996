package crypto

import "runtime"

// Wipe zeroes b in place. Best-effort: Go gives no guarantee that copies of
// the secret do not survive elsewhere in memory.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
