// Package profile submits the onboarding forms: basic profile (with an
// optional photo upload), KYC details and the training schedule.
//
// Each call returns the user record the backend sends back and hands it to
// the session, which persists it and re-runs the onboarding router.
package profile
