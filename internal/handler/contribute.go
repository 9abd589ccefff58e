package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/service"
)

// ContributeHandler accepts community application submissions.
type ContributeHandler struct {
	contributions *service.ContributionService
	logger        *slog.Logger
}

// NewContributeHandler creates a ContributeHandler.
func NewContributeHandler(contributions *service.ContributionService, logger *slog.Logger) *ContributeHandler {
	return &ContributeHandler{contributions: contributions, logger: logger}
}

type contributeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	EntryUID string `json:"entry_uid"`
}

// HandleContribute creates a draft application entry from the submitted
// document.
//
// HTTP: POST /api/contribute
// Auth: required — the contributor's email is taken from the session, never
// from the body.
func (h *ContributeHandler) HandleContribute(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var input service.ContributionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	app, err := h.contributions.Submit(r.Context(), id.Email, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contributeResponse{
		Success:  true,
		Message:  "Application submitted successfully! It will be reviewed by our team.",
		EntryUID: app.UID,
	})
}
