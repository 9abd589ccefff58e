package contentstack

import (
	"context"
	"fmt"

	"github.com/sakif/devdocs/internal/model"
)

// List returns every application entry (latest drafts).
func (s *Store) List(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	if err := s.client.QueryEntries(ctx, typeApplication, nil, &apps); err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// GetByUID fetches the latest draft of an application entry.
func (s *Store) GetByUID(ctx context.Context, uid string) (*model.Application, error) {
	var app model.Application
	if err := s.client.FetchEntry(ctx, typeApplication, uid, &app); err != nil {
		return nil, translate(err, "application", uid)
	}
	return &app, nil
}

// Create persists a new draft application entry (contribution flow) and
// fills in the CMS-assigned uid. The entry is NOT published — contributed
// applications stay drafts until a reviewer promotes them.
func (s *Store) Create(ctx context.Context, app *model.Application) error {
	payload := map[string]any{
		"title":              app.Title,
		"url":                app.URL,
		"app_description":    app.AppDescription,
		"main_description":   app.MainDescription,
		"application_status": app.ApplicationStatus,
	}
	// Optional fields are omitted entirely rather than sent empty; the
	// content type marks several of them with format validations that
	// reject "".
	if app.AppCategory != "" {
		payload["app_category"] = app.AppCategory
	}
	if len(app.AppTags) > 0 {
		payload["app_tags"] = app.AppTags
	}
	if app.MaintainerName != "" {
		payload["maintainer_name"] = app.MaintainerName
	}
	if app.GettingStarted != "" {
		payload["getting_started"] = app.GettingStarted
	}
	if len(app.KeyFeatures) > 0 {
		payload["app_key_features"] = app.KeyFeatures
	}
	if len(app.UsefulLinks) > 0 {
		payload["app_useful_links"] = app.UsefulLinks
	}
	if app.ContributedBy != "" {
		payload["contributed_by"] = app.ContributedBy
	}
	if app.ContributionStatus != "" {
		payload["contribution_status"] = app.ContributionStatus
	}

	var created model.Application
	if err := s.client.CreateEntry(ctx, typeApplication, payload, &created); err != nil {
		return fmt.Errorf("creating application entry: %w", err)
	}
	app.UID = created.UID
	app.Version = created.Version
	return nil
}

// Update writes the application's counter back at the fetched version.
//
// Only upvotes is sent: the Management API merges partial entry payloads, and
// the orchestrator is the sole writer of this field — sending the whole
// entry would just widen the window for clobbering a reviewer's concurrent
// content edit.
func (s *Store) Update(ctx context.Context, app *model.Application) error {
	payload := map[string]any{"upvotes": app.Upvotes}

	var updated model.Application
	err := s.client.UpdateEntry(ctx, typeApplication, app.UID, payload, app.Version, &updated)
	if err != nil {
		return translate(err, "application", app.UID)
	}
	app.Version = updated.Version
	return nil
}

// Publish makes the application's draft state visible to the delivery view.
func (s *Store) Publish(ctx context.Context, uid, locale string) error {
	return s.publish(ctx, typeApplication, uid, locale)
}
