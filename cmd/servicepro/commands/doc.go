// Package commands defines the servicepro CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login      Authenticate and persist the session
//   - logout     Notify the backend and clear the local session
//   - status     Print device, session and connectivity state
//   - route      Print the onboarding screen for the current user
//   - call       Send an arbitrary request through the dispatcher
//   - profile    Submit profile details (multipart)
//   - kyc        Submit KYC details
//   - training   Request a training slot
//   - watch      Probe connectivity, refresh the profile and serve metrics
//
// # Implementation
//
// The root command loads configuration, builds the dependency graph
// (stores, connectivity monitor, dispatcher, services) and restores the
// persisted session before any subcommand runs. Route changes after that
// are printed by a console navigator.
package commands
