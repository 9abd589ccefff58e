// Package contentstack implements the repository interfaces on top of the
// Contentstack Management API client.
//
// This layer owns two things:
//
//  1. Typing: raw entry JSON is decoded into the model structs here and
//     nowhere else. Handlers and services never see map[string]any.
//  2. Error translation: upstream 404s become apperror.ErrNotFound and
//     version-conflict 409s become apperror.ErrConflict, so the service
//     layer stays ignorant of HTTP.
//
// What it deliberately does NOT own: retry policy. A conflicted write is
// reported, not retried — the engagement orchestrator decides whether a
// re-fetch-and-retry is appropriate.
package contentstack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/contentstack"
	"github.com/sakif/devdocs/internal/repository"
)

// Content type uids as defined in the stack schema.
const (
	typeUser        = "users"
	typeApplication = "application"
	typeChangelog   = "changelog"
	typeFAQ         = "faq"
	typeSupportPage = "supportpage"
	typeHomepage    = "homepage"
)

// compile-time checks that *Store implements the repository interfaces
var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.ApplicationRepository = (*Store)(nil)
	_ repository.ContentRepository     = (*Store)(nil)
)

// Store adapts the generic CMS client to the typed repository interfaces.
type Store struct {
	client        *contentstack.Client
	environment   string // publish target
	defaultLocale string
}

// NewStore creates a Store publishing to the given environment.
func NewStore(client *contentstack.Client, environment, defaultLocale string) *Store {
	if defaultLocale == "" {
		defaultLocale = "en-us"
	}
	return &Store{
		client:        client,
		environment:   environment,
		defaultLocale: defaultLocale,
	}
}

// publish promotes a draft entry to the configured environment.
func (s *Store) publish(ctx context.Context, contentType, uid, locale string) error {
	if locale == "" {
		locale = s.defaultLocale
	}
	err := s.client.PublishEntry(ctx, contentType, uid, []string{s.environment}, []string{locale})
	if err != nil {
		return fmt.Errorf("publishing %s %s: %w", contentType, uid, err)
	}
	return nil
}

// translate maps upstream status errors onto the shared error taxonomy.
func translate(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case contentstack.IsStatus(err, http.StatusNotFound):
		return apperror.NotFound(resource, id)
	case contentstack.IsStatus(err, http.StatusConflict):
		return apperror.Conflict(resource, id)
	default:
		return err
	}
}
