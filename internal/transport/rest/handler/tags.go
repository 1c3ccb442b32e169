package handler

import (
	"encoding/json"
	"net/http"

	"skillshare/internal/metrics"
	"skillshare/internal/service"
)

// TagHandler handles tag suggestion endpoints
type TagHandler struct {
	tagSvc  *service.TagService
	metrics *metrics.Metrics
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagSvc *service.TagService, m *metrics.Metrics) *TagHandler {
	return &TagHandler{tagSvc: tagSvc, metrics: m}
}

// SuggestTagsRequest is the request body for tag suggestion
type SuggestTagsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Suggest handles POST /v1/tags/suggest. Suggestion is best-effort: an
// empty tag list is a normal response, never an error.
func (h *TagHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tags := h.tagSvc.Suggest(r.Context(), req.Title, req.Description)

	if h.metrics != nil {
		outcome := "suggested"
		if len(tags) == 0 {
			outcome = "empty"
		}
		h.metrics.TagSuggestionsTotal.WithLabelValues(outcome).Inc()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
