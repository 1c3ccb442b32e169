package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"skillshare/internal/metrics"
	"skillshare/internal/model"
	"skillshare/internal/service"
	"skillshare/internal/transport/rest/middleware"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	metrics    *metrics.Metrics
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, metrics: m}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUID(r.Context())

	var req service.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Create(r.Context(), uid, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create session. Please try again.")
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsCreatedTotal.Inc()
	}
	writeJSON(w, http.StatusCreated, session)
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := model.ListQuery{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}

	sessions, err := h.sessionSvc.List(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	session, err := h.sessionSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Update handles PUT /v1/sessions/{sessionId}
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	uid := middleware.GetUID(r.Context())

	var req service.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Update(r.Context(), id, uid, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update session. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /v1/sessions/{sessionId}. Deletion is irreversible,
// so the request must carry confirm=true; without it nothing is written.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	uid := middleware.GetUID(r.Context())

	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "deletion requires confirm=true")
		return
	}

	if err := h.sessionSvc.Delete(r.Context(), id, uid); err != nil {
		writeServiceError(w, err, "Failed to delete session. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Join handles POST /v1/sessions/{sessionId}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	uid := middleware.GetUID(r.Context())

	session, err := h.sessionSvc.Join(r.Context(), id, uid)
	if err != nil {
		writeServiceError(w, err, "Failed to join session")
		return
	}

	if h.metrics != nil {
		h.metrics.SessionJoinsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, session)
}

// Leave handles POST /v1/sessions/{sessionId}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	uid := middleware.GetUID(r.Context())

	session, err := h.sessionSvc.Leave(r.Context(), id, uid)
	if err != nil {
		writeServiceError(w, err, "Failed to leave session")
		return
	}

	if h.metrics != nil {
		h.metrics.SessionLeavesTotal.Inc()
	}
	writeJSON(w, http.StatusOK, session)
}

// writeServiceError maps service errors onto the HTTP taxonomy. Unmapped
// errors get a generic retryable-looking message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSessionFull):
		writeError(w, http.StatusConflict, "This session is full")
	case errors.Is(err, service.ErrSessionPast):
		writeError(w, http.StatusConflict, "This session has already taken place")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
