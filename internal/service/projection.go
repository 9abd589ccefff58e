package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

// titleFetchConcurrency caps the parallel per-application title lookups in
// the engagement state projection.
const titleFetchConcurrency = 4

// EngagementState is the personalization read: the applications the user has
// upvoted and liked, with display titles resolved.
type EngagementState struct {
	UpvotedApplications []model.ApplicationSummary `json:"upvotedApplications"`
	LikedApplications   []model.ApplicationSummary `json:"likedApplications"`
}

// ProjectionService derives read views from the authoritative CMS state.
// No caching: every call is a fresh fetch.
type ProjectionService struct {
	users  repository.UserRepository
	apps   repository.ApplicationRepository
	logger *slog.Logger
}

// NewProjectionService creates a ProjectionService.
func NewProjectionService(
	users repository.UserRepository,
	apps repository.ApplicationRepository,
	logger *slog.Logger,
) *ProjectionService {
	return &ProjectionService{users: users, apps: apps, logger: logger}
}

// State returns the user's engagement state.
//
// This is personalization, not a protected resource: an empty email (no
// session), an unknown user, or even an upstream failure all degrade to
// empty lists instead of an error — absence of identity just means "nothing
// to show".
func (s *ProjectionService) State(ctx context.Context, userEmail string) *EngagementState {
	empty := &EngagementState{
		UpvotedApplications: []model.ApplicationSummary{},
		LikedApplications:   []model.ApplicationSummary{},
	}

	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return empty
	}

	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("engagement state fetch failed",
				slog.String("error", err.Error()),
			)
		}
		return empty
	}

	return &EngagementState{
		UpvotedApplications: s.resolveTitles(ctx, user.UpvotedApplications),
		LikedApplications:   s.resolveTitles(ctx, user.LikedApplications),
	}
}

// resolveTitles maps a reference list to {uid, title} summaries. The lookups
// fan out concurrently; an application that has been deleted from the store
// (or any per-uid failure) degrades to showing the raw uid as the title
// rather than failing the whole projection.
func (s *ProjectionService) resolveTitles(ctx context.Context, refs []model.Reference) []model.ApplicationSummary {
	summaries := make([]model.ApplicationSummary, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(titleFetchConcurrency)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			summary := model.ApplicationSummary{UID: ref.UID, Title: ref.UID}
			app, err := s.apps.GetByUID(gctx, ref.UID)
			if err == nil && app.Title != "" {
				summary.Title = app.Title
			} else if err != nil && !isNotFound(err) {
				s.logger.Warn("title resolution failed",
					slog.String("applicationUID", ref.UID),
					slog.String("error", err.Error()),
				)
			}
			summaries[i] = summary
			return nil
		})
	}

	// Workers never return errors — degradation is per-item — so Wait only
	// synchronizes.
	_ = g.Wait()

	return summaries
}

// Profile returns the full user record for the authenticated email,
// including both membership reference lists.
func (s *ProjectionService) Profile(ctx context.Context, userEmail string) (*model.User, error) {
	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, apperror.Unauthorized("profile requires an authenticated session")
	}
	return s.users.FindByEmail(ctx, userEmail)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
