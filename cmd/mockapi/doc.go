// Package main runs the in-memory development backend used by servicepro
// during development and manual testing. See internal/mockapi for the HTTP
// API.
//
// Behaviour
//
//   - A demo provider is seeded from --phone, --email and --password.
//   - All state is held in memory and lost on process exit.
//   - Every request is logged with method, route, status and duration.
//   - The default listen address is :8080.
package main
