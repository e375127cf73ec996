package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type ctxKey int

const claimsKey ctxKey = iota

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodHead, http.MethodGet)

	client := r.NewRoute().Subrouter()
	client.Use(requireDevice)
	client.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := client.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/user/profile", s.handleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/user/profile", s.handleUpdateProfile).Methods(http.MethodPost)
	authed.HandleFunc("/user/kyc", s.handleKYC).Methods(http.MethodPost)
	authed.HandleFunc("/user/training", s.handleTraining).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/users/{id}/kyc", s.handleAdminKYC).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/training", s.handleAdminTraining).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, "route not found", nil)
	})
	return r
}

// accessLog records method, path, status and duration for each request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		s.log.WithFields(map[string]any{
			"method":   r.Method,
			"path":     path,
			"status":   wrapped.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// requireDevice rejects client calls without a device_id.
func requireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		form, err := readForm(r)
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, false, err.Error(), nil)
			return
		}
		if form.get("device_id") == "" {
			writeEnvelope(w, http.StatusBadRequest, false, "device_id is required", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), formKey, form)))
	})
}

// requireAuth resolves the bearer token into claims.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeEnvelope(w, http.StatusUnauthorized, false, "authentication required", nil)
			return
		}
		claims, err := s.verify(token)
		if err != nil {
			writeEnvelope(w, http.StatusUnauthorized, false, "session expired", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func claimsFrom(r *http.Request) *jwt.RegisteredClaims {
	c, _ := r.Context().Value(claimsKey).(*jwt.RegisteredClaims)
	return c
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
