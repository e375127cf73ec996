// Package notify provides sinks for user-facing notifications.
//
// The session layer only emits notifications; how they are shown belongs to
// the host. Log writes them through logrus, Console prints them for the CLI,
// and Recorder keeps them in memory so callers can assert on them.
package notify
