package contentstack

import (
	"context"
	"fmt"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
)

// Homepage returns the homepage singleton entry.
func (s *Store) Homepage(ctx context.Context) (*model.Homepage, error) {
	var entries []model.Homepage
	if err := s.client.QueryEntries(ctx, typeHomepage, nil, &entries); err != nil {
		return nil, fmt.Errorf("fetching homepage: %w", err)
	}
	if len(entries) == 0 {
		return nil, apperror.NotFound("homepage", "singleton")
	}
	return &entries[0], nil
}

// SupportPage returns the support page singleton entry.
func (s *Store) SupportPage(ctx context.Context) (*model.SupportPage, error) {
	var entries []model.SupportPage
	if err := s.client.QueryEntries(ctx, typeSupportPage, nil, &entries); err != nil {
		return nil, fmt.Errorf("fetching support page: %w", err)
	}
	if len(entries) == 0 {
		return nil, apperror.NotFound("supportpage", "singleton")
	}
	return &entries[0], nil
}

// FAQs returns all FAQ entries. Ordering and active-filtering are service
// concerns; the store hands back whatever the CMS has.
func (s *Store) FAQs(ctx context.Context) ([]model.FAQ, error) {
	var faqs []model.FAQ
	if err := s.client.QueryEntries(ctx, typeFAQ, nil, &faqs); err != nil {
		return nil, fmt.Errorf("fetching faqs: %w", err)
	}
	return faqs, nil
}

// Changelogs returns all changelog entries. The per-application filter lives
// in the service layer because the reference field's shape makes a reliable
// server-side query awkward — the entry count is small enough to filter here.
func (s *Store) Changelogs(ctx context.Context) ([]model.Changelog, error) {
	var logs []model.Changelog
	if err := s.client.QueryEntries(ctx, typeChangelog, nil, &logs); err != nil {
		return nil, fmt.Errorf("fetching changelogs: %w", err)
	}
	return logs, nil
}
