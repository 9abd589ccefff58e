package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/service"
)

// ProfileHandler serves the authenticated user's CMS record.
type ProfileHandler struct {
	projections *service.ProjectionService
	logger      *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(projections *service.ProjectionService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{projections: projections, logger: logger}
}

type profileResponse struct {
	Profile *model.User `json:"profile"`
}

// HandleProfile returns the full user record, including both membership
// reference lists.
//
// HTTP: GET /api/profile
// Auth: required.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	user, err := h.projections.Profile(r.Context(), id.Email)
	if err != nil {
		h.logger.Error("profile fetch failed",
			slog.String("email", id.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Profile: user})
}
