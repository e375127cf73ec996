package onboarding

import "servicepro/internal/domain"

// kycStage and trainingStage are the closed views of the backend's strings
// that the decision table switches on.
type kycStage int

const (
	kycMissing kycStage = iota
	kycWaiting
	kycApproved
)

type trainingStage int

const (
	trainingMissing trainingStage = iota
	trainingOpen
	trainingDone
)

// Router holds the routing policy. The zero value reproduces the mobile
// client's behaviour.
type Router struct {
	// RequireTraining routes approved providers without any training
	// submission to TrainingStatus rather than the dashboard.
	RequireTraining bool
}

// Next returns the screen for user under the default policy.
func Next(user *domain.UserRecord) domain.Decision {
	return Router{}.Next(user)
}

// Next returns the screen that should currently be active for user.
func (r Router) Next(user *domain.UserRecord) domain.Decision {
	if user == nil {
		return domain.Decision{Screen: domain.ScreenIntro}
	}
	if !user.ProfileComplete() {
		return domain.Decision{Screen: domain.ScreenProfileUpdate}
	}

	switch kycOf(user) {
	case kycMissing:
		return domain.Decision{Screen: domain.ScreenKYC}
	case kycWaiting:
		return domain.Decision{Screen: domain.ScreenKYCStatus}
	}

	switch trainingOf(user) {
	case trainingOpen:
		return domain.Decision{Screen: domain.ScreenTrainingStatus}
	case trainingMissing:
		if r.RequireTraining {
			return domain.Decision{Screen: domain.ScreenTrainingStatus}
		}
		return domain.Decision{Screen: domain.ScreenProviderDashboard, AllowBack: true}
	default:
		return domain.Decision{Screen: domain.ScreenProviderDashboard}
	}
}

func kycOf(user *domain.UserRecord) kycStage {
	switch {
	case user.KYC == nil:
		return kycMissing
	case user.KYC.Status == domain.KYCApproved:
		return kycApproved
	default:
		// pending, rejected and anything the backend adds later wait on
		// the status screen.
		return kycWaiting
	}
}

func trainingOf(user *domain.UserRecord) trainingStage {
	if user.TrainingScheduleSubmit == nil {
		return trainingMissing
	}
	switch user.TrainingScheduleSubmit.Status {
	case domain.TrainingNew, domain.TrainingConfirm, domain.TrainingReject:
		return trainingOpen
	default:
		return trainingDone
	}
}
