// Package store provides file-based persistence for the servicepro session.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking. Stored files typically live under the user’s configured
// home directory.
//
// The package includes stores for:
//   - The auth token and last-known user record (SessionFileStore)
//   - The per-installation device id (DeviceFileStore)
//
// The token is never written in clear text; it is sealed with
// ChaCha20-Poly1305 under a scrypt-derived key.
package store
