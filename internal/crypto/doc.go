// Package crypto holds the small primitives servicepro needs around secrets.
//
// Contents
//
//   - Best-effort memory wiping for derived keys (Wipe)
//   - Short fingerprints so tokens can be correlated in logs without being
//     printed (Fingerprint)
//
// Sealing the persisted token lives in internal/store, next to the file
// format it protects.
package crypto
