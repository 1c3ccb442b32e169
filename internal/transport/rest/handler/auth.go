package handler

import (
	"encoding/json"
	"net/http"

	"skillshare/internal/metrics"
	"skillshare/internal/model"
	"skillshare/internal/service"
	"skillshare/internal/transport/rest/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, metrics: m}
}

// SignIn handles POST /v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.SignIn(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthFailuresTotal.Inc()
		}
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AuthSuccessesTotal.Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

// SignOut handles POST /v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	if err := h.authSvc.SignOut(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUID(r.Context())
	user, err := h.authSvc.Me(r.Context(), uid)
	if err != nil {
		if err == service.ErrUserNotFound {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
