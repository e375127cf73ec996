package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"servicepro/internal/domain"
)

// ErrRejected is returned when the backend answers with success=false.
var ErrRejected = errors.New("request rejected")

// Endpoints names the backend routes used by the service.
type Endpoints struct {
	Profile  string
	KYC      string
	Training string
}

// UserUpdater receives the fresh user record after every successful submit.
type UserUpdater interface {
	UpdateUser(ctx context.Context, user *domain.UserRecord) error
}

// Service sends onboarding forms.
type Service struct {
	api       domain.Dispatcher
	session   UserUpdater
	endpoints Endpoints
}

// New returns a profile Service.
func New(api domain.Dispatcher, session UserUpdater, endpoints Endpoints) *Service {
	return &Service{api: api, session: session, endpoints: endpoints}
}

// ProfileForm is the basic profile step.
type ProfileForm struct {
	Name    string
	DOB     string
	Address string
	Photo   *domain.File // optional
}

// KYCForm carries identity and bank details.
type KYCForm struct {
	DocumentType   string
	DocumentNumber string
	BankName       string
	AccountNumber  string
	IFSC           string
	Document       *domain.File // optional scan
}

// UpdateProfile uploads the basic profile as multipart form data.
func (s *Service) UpdateProfile(ctx context.Context, form ProfileForm) (*domain.UserRecord, error) {
	payload := map[string]any{
		"name":    form.Name,
		"dob":     form.DOB,
		"address": optional(form.Address),
		"photo":   form.Photo,
	}
	return s.submit(ctx, s.endpoints.Profile, payload, true)
}

// SubmitKYC sends the KYC form. A document scan switches to multipart.
func (s *Service) SubmitKYC(ctx context.Context, form KYCForm) (*domain.UserRecord, error) {
	payload := map[string]any{
		"documentType":   form.DocumentType,
		"documentNumber": form.DocumentNumber,
		"bankName":       form.BankName,
		"accountNumber":  form.AccountNumber,
		"ifsc":           optional(form.IFSC),
	}
	upload := form.Document != nil
	if upload {
		payload["document"] = form.Document
	}
	return s.submit(ctx, s.endpoints.KYC, payload, upload)
}

// ScheduleTraining asks for a training slot.
func (s *Service) ScheduleTraining(ctx context.Context, date, slot string) (*domain.UserRecord, error) {
	payload := map[string]any{"trainingDate": date, "slot": slot}
	return s.submit(ctx, s.endpoints.Training, payload, false)
}

func (s *Service) submit(ctx context.Context, endpoint string, payload map[string]any, upload bool) (*domain.UserRecord, error) {
	out, err := s.api.Send(ctx, domain.Request{
		Payload:  payload,
		Endpoint: endpoint,
		Method:   http.MethodPost,
		Options: domain.RequestOptions{
			ShowLoader:         true,
			ShowErrorMessage:   true,
			ShowSuccessMessage: true,
			IsFileUpload:       upload,
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Kind != domain.OutcomeSuccess || !out.Payload.Success() {
		return nil, fmt.Errorf("%s: %w: %s", endpoint, ErrRejected, out.Payload.Message())
	}

	var user domain.UserRecord
	if err := out.Payload.Decode("data", &user); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if err := s.session.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// optional maps empty strings to nil so they are left out of uploads.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
