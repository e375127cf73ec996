// Package session owns the login/logout lifecycle.
//
// It is the only writer of the persisted session: Login stores token and
// user together, Logout tears both down after a best-effort server call, and
// Expire is the hook the API layer calls on 401. Every change of user record
// is pushed to listeners registered with OnUser, which is how the onboarding
// router gets recomputed.
package session
