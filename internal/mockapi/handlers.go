package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"servicepro/internal/domain"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	f := formFrom(r)
	login := f.get("phone")
	if login == "" {
		login = f.get("email")
	}
	if login == "" || f.get("password") == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "phone or email and password are required", nil)
		return
	}
	user, ok := s.authenticate(login, f.get("password"))
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid credentials", nil)
		return
	}
	token, err := s.issue(user.ID)
	if err != nil {
		s.log.WithError(err).Error("issue token")
		writeEnvelope(w, http.StatusInternalServerError, false, "could not issue token", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "Login successful", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.revoke(claimsFrom(r).ID)
	writeEnvelope(w, http.StatusOK, true, "Logged out", nil)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.User(claimsFrom(r).Subject)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, false, "user not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	f := formFrom(r)
	if f.get("name") == "" || f.get("dob") == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "name and dob are required", nil)
		return
	}
	user, err := s.update(claimsFrom(r).Subject, func(u *domain.UserRecord) error {
		u.Name = f.get("name")
		u.DOB = f.get("dob")
		details := map[string]any{}
		if a := f.get("address"); a != "" {
			details["address"] = a
		}
		if photo := f.files["photo"]; photo != nil {
			details["photo"] = photo.Filename
		}
		if len(details) > 0 {
			u.Profile = details
		}
		return nil
	})
	s.reply(w, "Profile updated", user, err)
}

func (s *Server) handleKYC(w http.ResponseWriter, r *http.Request) {
	f := formFrom(r)
	if f.get("documentType") == "" || f.get("documentNumber") == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "documentType and documentNumber are required", nil)
		return
	}
	user, err := s.SetKYC(claimsFrom(r).Subject, domain.KYCPending, "")
	s.reply(w, "KYC submitted for review", user, err)
}

func (s *Server) handleTraining(w http.ResponseWriter, r *http.Request) {
	f := formFrom(r)
	if f.get("trainingDate") == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "trainingDate is required", nil)
		return
	}
	id := claimsFrom(r).Subject
	current, ok := s.User(id)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, false, "user not found", nil)
		return
	}
	if current.KYC == nil || current.KYC.Status != domain.KYCApproved {
		writeEnvelope(w, http.StatusForbidden, false, "KYC not approved", nil)
		return
	}
	user, err := s.update(id, func(u *domain.UserRecord) error {
		u.TrainingScheduleSubmit = &domain.TrainingSubmission{
			Status: domain.TrainingNew,
			Date:   f.get("trainingDate"),
			Slot:   f.get("slot"),
		}
		return nil
	})
	s.reply(w, "Training requested", user, err)
}

type adminDecision struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (s *Server) handleAdminKYC(w http.ResponseWriter, r *http.Request) {
	var d adminDecision
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Status == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "status is required", nil)
		return
	}
	user, err := s.SetKYC(mux.Vars(r)["id"], domain.KYCStatus(d.Status), d.Remarks)
	s.reply(w, "KYC updated", user, err)
}

func (s *Server) handleAdminTraining(w http.ResponseWriter, r *http.Request) {
	var d adminDecision
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Status == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "status is required", nil)
		return
	}
	user, err := s.SetTraining(mux.Vars(r)["id"], domain.TrainingStatus(d.Status))
	s.reply(w, "Training updated", user, err)
}

func (s *Server) reply(w http.ResponseWriter, message string, user domain.UserRecord, err error) {
	switch {
	case errors.Is(err, ErrUnknownUser):
		writeEnvelope(w, http.StatusNotFound, false, "user not found", nil)
	case err != nil:
		s.log.WithError(err).Error("update user")
		writeEnvelope(w, http.StatusInternalServerError, false, "internal error", nil)
	default:
		writeEnvelope(w, http.StatusOK, true, message, user)
	}
}
