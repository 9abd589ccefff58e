package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

// Kind distinguishes the two engagement actions. Upvotes additionally
// maintain the application's counter; likes only touch the user's list.
type Kind string

const (
	KindUpvote Kind = "upvote"
	KindLike   Kind = "like"
)

// maxWriteAttempts bounds the optimistic-concurrency retry loops. Every
// attempt re-fetches the entry, so three attempts means at most three
// fetch+write pairs before the request gives up with an upstream-write error.
const maxWriteAttempts = 3

// Result is the outcome of recording an engagement.
//
// AlreadyRecorded=true is still success: repeating an engagement must look
// identical to performing it once, never like an error.
type Result struct {
	Success         bool
	AlreadyRecorded bool
	Upvotes         int // current counter; meaningful for upvotes only
}

// EngagementService is the orchestrator for the upvote/like write path.
//
// The flow is a fixed sequence of CMS calls:
//
//	resolve user → idempotency check → [upvote: increment + publish app]
//	→ append membership + publish user
//
// Within one request the steps are strictly sequential. Across requests
// there is no coordination at all — the CMS is the only shared state, and
// both read-modify-write steps are protected by optimistic version checks
// with a bounded retry (see recordUpvoteCounter / appendMembership).
//
// FAILURE SEMANTICS:
//   - A failed WRITE (increment, membership append) is fatal: the user's
//     action did not take effect and the caller gets a 5xx.
//   - A failed PUBLISH is non-fatal: the mutation already happened, so the
//     action is reported as success. The failure is logged and recorded in
//     the audit store so an operator can republish the stale entry.
type EngagementService struct {
	users  repository.UserRepository
	apps   repository.ApplicationRepository
	audit  repository.AuditRepository
	logger *slog.Logger
}

// NewEngagementService creates an EngagementService. audit may be nil when
// the audit store is disabled.
func NewEngagementService(
	users repository.UserRepository,
	apps repository.ApplicationRepository,
	audit repository.AuditRepository,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		users:  users,
		apps:   apps,
		audit:  audit,
		logger: logger,
	}
}

// Record performs one engagement action for the given user and application.
//
// Idempotent per (user, application, kind): if the application is already in
// the user's membership list, no mutation of any kind occurs and the result
// carries AlreadyRecorded=true.
func (s *EngagementService) Record(ctx context.Context, kind Kind, userEmail, applicationUID string) (*Result, error) {
	if kind != KindUpvote && kind != KindLike {
		return nil, apperror.ValidationFailed("kind", fmt.Sprintf("unknown engagement kind %q", kind))
	}
	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, apperror.Unauthorized("engagement requires an authenticated session")
	}
	applicationUID = strings.TrimSpace(applicationUID)
	if applicationUID == "" {
		return nil, apperror.ValidationFailed("applicationUid", "application UID is required")
	}

	// Step 1: resolve the user. The user must already exist — sign-in
	// created it — so an absent user is a hard 404, not a create.
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	// Step 2: idempotency guard, BEFORE any mutation.
	if s.alreadyRecorded(kind, user, applicationUID) {
		return s.duplicateResult(ctx, kind, applicationUID)
	}

	result := &Result{Success: true}
	event := &repository.EngagementEvent{
		Kind:           string(kind),
		UserUID:        user.UID,
		ApplicationUID: applicationUID,
	}

	// Steps 3-4 apply to upvotes only: bump the counter, then publish the
	// application so read-only consumers can see the new count.
	if kind == KindUpvote {
		app, err := s.recordUpvoteCounter(ctx, applicationUID)
		if err != nil {
			return nil, err
		}
		result.Upvotes = app.Upvotes

		if err := s.apps.Publish(ctx, applicationUID, app.Locale); err != nil {
			// Non-fatal: the counter already moved. Logged distinctly
			// and recorded so the stale entry can be republished.
			event.AppPublishFailed = true
			s.logger.Warn("application publish failed after upvote",
				slog.String("applicationUID", applicationUID),
				slog.String("error", err.Error()),
			)
		}
	}

	// Steps 5-6: append the membership reference and publish the user.
	if err := s.appendMembership(ctx, kind, user.UID, applicationUID); err != nil {
		return nil, err
	}

	if err := s.users.Publish(ctx, user.UID, user.Locale); err != nil {
		// Also non-fatal, but surfaced separately: an unpublished
		// membership list means the UI shows a stale "not yet upvoted"
		// state on next load even though the record step succeeded.
		event.UserPublishFailed = true
		s.logger.Warn("user publish failed after engagement",
			slog.String("kind", string(kind)),
			slog.String("userUID", user.UID),
			slog.String("applicationUID", applicationUID),
			slog.String("error", err.Error()),
		)
	}

	s.recordAudit(ctx, event)

	s.logger.Info("engagement recorded",
		slog.String("kind", string(kind)),
		slog.String("userUID", user.UID),
		slog.String("applicationUID", applicationUID),
		slog.Int("upvotes", result.Upvotes),
	)

	return result, nil
}

func (s *EngagementService) alreadyRecorded(kind Kind, user *model.User, applicationUID string) bool {
	if kind == KindUpvote {
		return user.HasUpvoted(applicationUID)
	}
	return user.HasLiked(applicationUID)
}

// duplicateResult builds the response for the no-mutation duplicate path.
// For upvotes the caller still wants the current count; a failed count fetch
// degrades to zero rather than failing a request that is, by contract, a
// success.
func (s *EngagementService) duplicateResult(ctx context.Context, kind Kind, applicationUID string) (*Result, error) {
	result := &Result{Success: true, AlreadyRecorded: true}

	if kind == KindUpvote {
		app, err := s.apps.GetByUID(ctx, applicationUID)
		if err != nil {
			s.logger.Warn("count fetch failed on duplicate upvote",
				slog.String("applicationUID", applicationUID),
				slog.String("error", err.Error()),
			)
		} else {
			result.Upvotes = app.Upvotes
		}
	}

	return result, nil
}

// recordUpvoteCounter performs the fetch → increment → write cycle with an
// optimistic-version retry.
//
// Two users upvoting the same application race here: both read count N, both
// try to write N+1. The version check makes the second write fail with a
// conflict, and that writer re-fetches (now reading N+1) and retries. Without
// this loop one increment is silently lost.
func (s *EngagementService) recordUpvoteCounter(ctx context.Context, applicationUID string) (*model.Application, error) {
	var lastErr error

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		app, err := s.apps.GetByUID(ctx, applicationUID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, err
			}
			return nil, apperror.UpstreamWrite("application fetch for upvote", err)
		}

		app.Upvotes++
		err = s.apps.Update(ctx, app)
		if err == nil {
			return app, nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.UpstreamWrite("application upvote increment", err)
		}

		lastErr = err
		s.logger.Debug("upvote write conflicted, retrying",
			slog.String("applicationUID", applicationUID),
			slog.Int("attempt", attempt),
		)
	}

	return nil, apperror.UpstreamWrite("application upvote increment", lastErr)
}

// appendMembership adds the application reference to the user's list for the
// given kind, re-fetching the user immediately before the write to reduce
// staleness, with the same optimistic retry as the counter.
//
// If a concurrent request already appended the reference (same user, two
// tabs), the fresh fetch sees it and the append becomes a no-op — the set
// invariant holds regardless of interleaving.
func (s *EngagementService) appendMembership(ctx context.Context, kind Kind, userUID, applicationUID string) error {
	var lastErr error

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		user, err := s.users.GetByUID(ctx, userUID)
		if err != nil {
			return apperror.UpstreamWrite("user fetch for membership append", err)
		}

		if s.alreadyRecorded(kind, user, applicationUID) {
			return nil
		}

		ref := model.ApplicationRef(applicationUID)
		if kind == KindUpvote {
			user.UpvotedApplications = append(user.UpvotedApplications, ref)
		} else {
			user.LikedApplications = append(user.LikedApplications, ref)
		}

		err = s.users.Update(ctx, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return apperror.UpstreamWrite("user membership append", err)
		}

		lastErr = err
		s.logger.Debug("membership write conflicted, retrying",
			slog.String("userUID", userUID),
			slog.Int("attempt", attempt),
		)
	}

	return apperror.UpstreamWrite("user membership append", lastErr)
}

// recordAudit appends the event to the local audit trail. Best-effort: audit
// is telemetry, so failures are logged and never fail the request.
func (s *EngagementService) recordAudit(ctx context.Context, event *repository.EngagementEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordEngagement(ctx, event); err != nil {
		s.logger.Warn("audit write failed",
			slog.String("kind", event.Kind),
			slog.String("applicationUID", event.ApplicationUID),
			slog.String("error", err.Error()),
		)
	}
}
