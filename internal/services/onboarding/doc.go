// Package onboarding decides which workflow screen a provider should see.
//
// Next is a pure function of the user record: no I/O, no caching, no
// mutation of its input. Callers re-run it on every fresh record because the
// KYC and training branches are mutually exclusive and order-sensitive.
//
//	nil user                                  -> Intro
//	neither profile nor dob                   -> ProfileUpdate
//	no kyc                                    -> KycScreen
//	kyc pending, rejected or unrecognised     -> KYCStatus
//	kyc approved, training New/Confirm/Reject -> TrainingStatus
//	kyc approved, any other training status   -> ProviderDashboard
//	kyc approved, no training submission      -> ProviderDashboard (back allowed)
//
// The last row is a policy choice; Router.RequireTraining sends those users
// to TrainingStatus instead.
package onboarding
