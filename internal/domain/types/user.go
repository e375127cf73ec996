package types

// KYCStatus is the verification state reported by the backend.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// TrainingStatus is the state of a submitted training schedule.
type TrainingStatus string

const (
	TrainingNew      TrainingStatus = "New"
	TrainingConfirm  TrainingStatus = "Confirm"
	TrainingReject   TrainingStatus = "Reject"
	TrainingComplete TrainingStatus = "Complete"
)

// KYC is the identity and bank-detail verification attached to a user.
type KYC struct {
	Status    KYCStatus `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

// TrainingSubmission is the training slot a provider asked for.
type TrainingSubmission struct {
	Status TrainingStatus `json:"trainingScheduleStatus"`
	Date   string         `json:"trainingDate,omitempty"`
	Slot   string         `json:"slot,omitempty"`
}

// UserRecord is the backend's view of a provider. Profile is kept loosely
// typed because the backend sends a flag, an object or nothing.
type UserRecord struct {
	ID                     string              `json:"_id,omitempty"`
	Name                   string              `json:"name,omitempty"`
	Email                  string              `json:"email,omitempty"`
	Phone                  string              `json:"phone,omitempty"`
	Profile                any                 `json:"profile,omitempty"`
	DOB                    string              `json:"dob,omitempty"`
	KYC                    *KYC                `json:"kyc,omitempty"`
	TrainingScheduleSubmit *TrainingSubmission `json:"trainingScheduleSubmit,omitempty"`
}

// ProfileComplete reports whether basic profile details were submitted:
// either profile or dob must be present and non-empty.
func (u *UserRecord) ProfileComplete() bool {
	if u == nil {
		return false
	}
	return truthy(u.Profile) || u.DOB != ""
}

// truthy mirrors how the mobile client tested presence of loosely typed fields.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return true
	}
}
