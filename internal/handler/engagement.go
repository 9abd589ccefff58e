package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/service"
)

// EngagementHandler exposes the upvote/like write path and the engagement
// state read.
type EngagementHandler struct {
	engagements *service.EngagementService
	projections *service.ProjectionService
	logger      *slog.Logger
}

// NewEngagementHandler creates an EngagementHandler.
func NewEngagementHandler(
	engagements *service.EngagementService,
	projections *service.ProjectionService,
	logger *slog.Logger,
) *EngagementHandler {
	return &EngagementHandler{
		engagements: engagements,
		projections: projections,
		logger:      logger,
	}
}

type engagementRequest struct {
	ApplicationUID string `json:"applicationUid"`
}

type upvoteResponse struct {
	Success        bool `json:"success"`
	AlreadyUpvoted bool `json:"alreadyUpvoted"`
	Upvotes        int  `json:"upvotes"`
}

type likeResponse struct {
	Success      bool `json:"success"`
	AlreadyLiked bool `json:"alreadyLiked"`
}

// HandleUpvote records an upvote for the authenticated user.
//
// HTTP: POST /api/engagement/upvote
// Body: {"applicationUid": "blt..."}
//
// Duplicate upvotes return 200 with alreadyUpvoted=true — to the user a
// repeat click looks exactly like the first one.
func (h *EngagementHandler) HandleUpvote(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guards this route; reaching here without an
		// identity means a wiring bug, but fail safe regardless.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var req engagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.engagements.Record(r.Context(), service.KindUpvote, id.Email, req.ApplicationUID)
	if err != nil {
		h.logger.Error("upvote failed",
			slog.String("applicationUID", req.ApplicationUID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, upvoteResponse{
		Success:        result.Success,
		AlreadyUpvoted: result.AlreadyRecorded,
		Upvotes:        result.Upvotes,
	})
}

// HandleLike records a like for the authenticated user.
//
// HTTP: POST /api/engagement/like
// Body: {"applicationUid": "blt..."}
func (h *EngagementHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var req engagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.engagements.Record(r.Context(), service.KindLike, id.Email, req.ApplicationUID)
	if err != nil {
		h.logger.Error("like failed",
			slog.String("applicationUID", req.ApplicationUID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{
		Success:      result.Success,
		AlreadyLiked: result.AlreadyRecorded,
	})
}

// HandleState returns the caller's engagement state.
//
// HTTP: GET /api/engagement/state
// Auth: optional — anonymous callers get empty lists, and so does any
// internal failure. This endpoint is always 200.
func (h *EngagementHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	var email string
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		email = id.Email
	}

	state := h.projections.State(r.Context(), email)
	writeJSON(w, http.StatusOK, state)
}
