package types

// Screen identifies a workflow screen the onboarding router can select.
type Screen string

const (
	ScreenIntro             Screen = "Intro"
	ScreenProfileUpdate     Screen = "ProfileUpdate"
	ScreenKYC               Screen = "KycScreen"
	ScreenKYCStatus         Screen = "KYCStatus"
	ScreenTrainingStatus    Screen = "TrainingStatus"
	ScreenProviderDashboard Screen = "ProviderDashboard"
)

// String returns the screen identifier.
func (s Screen) String() string { return string(s) }

// Decision is the router's output for one user record.
type Decision struct {
	Screen    Screen
	AllowBack bool // the dashboard was reached without a training submission
}
