package domain

import (
	interfaces "servicepro/internal/domain/interfaces"
	types "servicepro/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	DeviceID           = types.DeviceID
	Token              = types.Token
	Session            = types.Session
	Credentials        = types.Credentials
	UserRecord         = types.UserRecord
	KYC                = types.KYC
	KYCStatus          = types.KYCStatus
	TrainingSubmission = types.TrainingSubmission
	TrainingStatus     = types.TrainingStatus
	RequestOptions     = types.RequestOptions
	Request            = types.Request
	File               = types.File
	Outcome            = types.Outcome
	OutcomeKind        = types.OutcomeKind
	Payload            = types.Payload
	Screen             = types.Screen
	Decision           = types.Decision
	Notification       = types.Notification
	NotificationType   = types.NotificationType
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SessionStore     = interfaces.SessionStore
	TokenSource      = interfaces.TokenSource
	DeviceStore      = interfaces.DeviceStore
	Dispatcher       = interfaces.Dispatcher
	SessionExpirer   = interfaces.SessionExpirer
	ConnectivityGate = interfaces.ConnectivityGate
	SessionService   = interfaces.SessionService
	Notifier         = interfaces.Notifier
	Navigator        = interfaces.Navigator
)

const (
	KYCPending  = types.KYCPending
	KYCApproved = types.KYCApproved
	KYCRejected = types.KYCRejected

	TrainingNew      = types.TrainingNew
	TrainingConfirm  = types.TrainingConfirm
	TrainingReject   = types.TrainingReject
	TrainingComplete = types.TrainingComplete

	OutcomeUnclassified    = types.OutcomeUnclassified
	OutcomeSuccess         = types.OutcomeSuccess
	OutcomeValidationError = types.OutcomeValidationError
	OutcomeAuthExpired     = types.OutcomeAuthExpired
	OutcomeForbidden       = types.OutcomeForbidden
	OutcomeNotFound        = types.OutcomeNotFound
	OutcomeServerError     = types.OutcomeServerError

	ScreenIntro             = types.ScreenIntro
	ScreenProfileUpdate     = types.ScreenProfileUpdate
	ScreenKYC               = types.ScreenKYC
	ScreenKYCStatus         = types.ScreenKYCStatus
	ScreenTrainingStatus    = types.ScreenTrainingStatus
	ScreenProviderDashboard = types.ScreenProviderDashboard

	NotifySuccess = types.NotifySuccess
	NotifyError   = types.NotifyError
	NotifyInfo    = types.NotifyInfo
)
