package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

// CatalogService serves the browse/read side of the site: applications,
// changelogs, and the static content entries (homepage, FAQs, support page).
// Pure reads — whatever the CMS returns is shaped and handed back.
type CatalogService struct {
	apps    repository.ApplicationRepository
	content repository.ContentRepository
	logger  *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	apps repository.ApplicationRepository,
	content repository.ContentRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{apps: apps, content: content, logger: logger}
}

// Applications returns all application entries.
func (s *CatalogService) Applications(ctx context.Context) ([]model.Application, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		s.logger.Error("listing applications failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// Application returns one application by uid.
func (s *CatalogService) Application(ctx context.Context, uid string) (*model.Application, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, apperror.ValidationFailed("uid", "application UID is required")
	}
	return s.apps.GetByUID(ctx, uid)
}

// ChangelogsForApplication returns the changelogs referencing the given
// application, newest release first. Entries without a parseable release
// date fall back to their creation time, and undateable entries sort last.
func (s *CatalogService) ChangelogsForApplication(ctx context.Context, applicationUID string) ([]model.Changelog, error) {
	applicationUID = strings.TrimSpace(applicationUID)
	if applicationUID == "" {
		return nil, apperror.ValidationFailed("uid", "application UID is required")
	}

	all, err := s.content.Changelogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching changelogs: %w", err)
	}

	logs := make([]model.Changelog, 0, len(all))
	for _, c := range all {
		if c.References(applicationUID) {
			logs = append(logs, c)
		}
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return changelogTime(&logs[i]).After(changelogTime(&logs[j]))
	})

	return logs, nil
}

// changelogTime picks the sort key for a changelog entry.
func changelogTime(c *model.Changelog) time.Time {
	if t, ok := parseCMSTime(c.ReleaseDate); ok {
		return t
	}
	if t, ok := parseCMSTime(c.CreatedAt); ok {
		return t
	}
	return time.Time{}
}

// parseCMSTime handles the two date shapes Contentstack emits: full ISO
// timestamps for system fields and bare dates for date fields.
func parseCMSTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Homepage returns the homepage content entry.
func (s *CatalogService) Homepage(ctx context.Context) (*model.Homepage, error) {
	return s.content.Homepage(ctx)
}

// SupportPage returns the support page content entry.
func (s *CatalogService) SupportPage(ctx context.Context) (*model.SupportPage, error) {
	return s.content.SupportPage(ctx)
}

// FAQs returns the active FAQ entries ordered by their display order.
func (s *CatalogService) FAQs(ctx context.Context) ([]model.FAQ, error) {
	all, err := s.content.FAQs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching faqs: %w", err)
	}

	faqs := make([]model.FAQ, 0, len(all))
	for _, f := range all {
		if f.IsActive {
			faqs = append(faqs, f)
		}
	}

	sort.SliceStable(faqs, func(i, j int) bool {
		return faqs[i].Order < faqs[j].Order
	})

	return faqs, nil
}
