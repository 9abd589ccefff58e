package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

// ContributionInput is a submitted application document. Field names mirror
// the content type's schema; the required set matches what the review team
// needs to evaluate a submission.
type ContributionInput struct {
	Title             string             `json:"title"`
	URL               string             `json:"url"`
	AppDescription    string             `json:"app_description"`
	MainDescription   string             `json:"main_description"`
	ApplicationStatus string             `json:"application_status"`
	AppCategory       string             `json:"app_category,omitempty"`
	AppTags           []string           `json:"app_tags,omitempty"`
	MaintainerName    string             `json:"maintainer_name,omitempty"`
	GettingStarted    string             `json:"getting_started,omitempty"`
	KeyFeatures       []model.KeyFeature `json:"app_key_features,omitempty"`
	UsefulLinks       []model.UsefulLink `json:"app_useful_links,omitempty"`
}

// ContributionService handles community-submitted application documentation.
// Submissions become draft entries only — publishing is a reviewer action
// outside this system.
type ContributionService struct {
	apps   repository.ApplicationRepository
	logger *slog.Logger
}

// NewContributionService creates a ContributionService.
func NewContributionService(apps repository.ApplicationRepository, logger *slog.Logger) *ContributionService {
	return &ContributionService{apps: apps, logger: logger}
}

// Submit validates and persists a contributed application as a draft entry.
// contributorEmail comes from the authenticated session, not the body.
func (s *ContributionService) Submit(ctx context.Context, contributorEmail string, input ContributionInput) (*model.Application, error) {
	required := []struct{ field, value string }{
		{"title", input.Title},
		{"url", input.URL},
		{"app_description", input.AppDescription},
		{"main_description", input.MainDescription},
		{"application_status", input.ApplicationStatus},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, apperror.ValidationFailed(r.field, r.field+" is required")
		}
	}

	app := &model.Application{
		Title:              strings.TrimSpace(input.Title),
		URL:                strings.TrimSpace(input.URL),
		AppDescription:     input.AppDescription,
		MainDescription:    input.MainDescription,
		ApplicationStatus:  input.ApplicationStatus,
		AppCategory:        input.AppCategory,
		AppTags:            input.AppTags,
		MaintainerName:     input.MaintainerName,
		GettingStarted:     input.GettingStarted,
		KeyFeatures:        input.KeyFeatures,
		UsefulLinks:        input.UsefulLinks,
		ContributedBy:      contributorEmail,
		ContributionStatus: "pending_review",
	}

	if err := s.apps.Create(ctx, app); err != nil {
		s.logger.Error("contribution create failed",
			slog.String("title", app.Title),
			slog.String("error", err.Error()),
		)
		return nil, apperror.UpstreamWrite("application submission", err)
	}

	s.logger.Info("application contributed",
		slog.String("uid", app.UID),
		slog.String("title", app.Title),
		slog.String("contributedBy", contributorEmail),
	)

	return app, nil
}
