// Package repository defines the storage interfaces the service layer
// programs against.
//
// There are two very different stores behind these interfaces: the external
// CMS (the system of record for users, applications and site content) and a
// local sqlite database that only holds the engagement audit trail. Services
// receive interfaces, never concrete clients, so tests substitute in-memory
// fakes for both.
package repository

import (
	"context"
	"time"

	"github.com/sakif/devdocs/internal/model"
)

// UserRepository reads and writes "users" entries in the CMS.
//
// Update performs a compare-and-swap on the entry version it was fetched at:
// implementations return apperror.ErrConflict when the entry has moved on,
// and callers re-fetch before retrying.
type UserRepository interface {
	// FindByEmail returns the first user whose email matches exactly.
	// Returns apperror.ErrNotFound when no user exists for the email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	// Create persists a new user entry and fills in the CMS-assigned UID.
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	// Publish promotes the user entry's draft state so the delivery view
	// reflects membership changes. Empty locale means the stack default.
	Publish(ctx context.Context, uid, locale string) error
}

// ApplicationRepository reads and writes "application" entries in the CMS.
type ApplicationRepository interface {
	List(ctx context.Context) ([]model.Application, error)
	GetByUID(ctx context.Context, uid string) (*model.Application, error)
	// Create persists a new draft application entry (contribution flow)
	// and fills in the CMS-assigned UID.
	Create(ctx context.Context, app *model.Application) error
	// Update writes the application back at the version it was fetched at;
	// apperror.ErrConflict signals a lost compare-and-swap.
	Update(ctx context.Context, app *model.Application) error
	Publish(ctx context.Context, uid, locale string) error
}

// ContentRepository reads the render-only content types. Everything here is
// fetch-and-return; no invariants beyond "hand back what the CMS has".
type ContentRepository interface {
	Homepage(ctx context.Context) (*model.Homepage, error)
	SupportPage(ctx context.Context) (*model.SupportPage, error)
	FAQs(ctx context.Context) ([]model.FAQ, error)
	Changelogs(ctx context.Context) ([]model.Changelog, error)
}

// EngagementEvent is one row of the local audit trail: an engagement the
// orchestrator recorded, including whether either publish step failed.
// Publish failures are non-fatal for the request but must be visible to
// operators — an unpublished membership change means the delivery view is
// stale until someone republishes.
type EngagementEvent struct {
	ID                string
	Kind              string // "upvote" or "like"
	UserUID           string
	ApplicationUID    string
	AppPublishFailed  bool
	UserPublishFailed bool
	CreatedAt         time.Time
}

// AuditRepository persists engagement events locally. Best-effort: callers
// log and continue when a write fails, the audit trail is telemetry, not a
// system of record.
type AuditRepository interface {
	RecordEngagement(ctx context.Context, event *EngagementEvent) error
	// RecentEvents returns the newest events first, for the ops endpoint.
	RecentEvents(ctx context.Context, limit int) ([]EngagementEvent, error)
}
