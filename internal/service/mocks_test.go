package service

// In-memory fakes for the repository interfaces. Like the real CMS, they
// enforce nothing: no set semantics on reference lists, no counter rules —
// that's the point, those invariants belong to the orchestrator under test.
// Writes bump a version counter so the optimistic-concurrency paths can be
// exercised, and every mock exposes error hooks to simulate upstream
// failures per call site.

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

type mockUserRepo struct {
	users map[string]*model.User // keyed by uid

	findErr    error
	getErr     error
	createErr  error
	updateErr  error
	publishErr error

	// conflictNext makes the next n Update calls fail with a version
	// conflict, simulating a concurrent writer.
	conflictNext int

	updateCalls  int
	publishCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) add(user *model.User) {
	stored := cloneUser(user)
	m.users[user.UID] = stored
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[uid]
	if !ok {
		return nil, apperror.NotFound("user", uid)
	}
	return cloneUser(u), nil
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.UID = "user-" + user.Email
	user.Version = 1
	m.add(user)
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.users[user.UID]
	if !ok {
		return apperror.NotFound("user", user.UID)
	}
	if m.conflictNext > 0 {
		m.conflictNext--
		// A real conflicting writer moved the entry forward.
		stored.Version++
		return apperror.Conflict("user", user.UID)
	}
	if user.Version != stored.Version {
		return apperror.Conflict("user", user.UID)
	}
	updated := cloneUser(user)
	updated.Version = stored.Version + 1
	m.users[user.UID] = updated
	user.Version = updated.Version
	return nil
}

func (m *mockUserRepo) Publish(_ context.Context, uid, _ string) error {
	m.publishCalls++
	return m.publishErr
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.UpvotedApplications = append([]model.Reference(nil), u.UpvotedApplications...)
	c.LikedApplications = append([]model.Reference(nil), u.LikedApplications...)
	return &c
}

type mockAppRepo struct {
	apps map[string]*model.Application

	getErr     error
	listErr    error
	createErr  error
	updateErr  error
	publishErr error

	conflictNext int

	updateCalls  int
	publishCalls int
}

func newMockAppRepo() *mockAppRepo {
	return &mockAppRepo{apps: make(map[string]*model.Application)}
}

func (m *mockAppRepo) add(app *model.Application) {
	stored := *app
	m.apps[app.UID] = &stored
}

func (m *mockAppRepo) List(_ context.Context) ([]model.Application, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.Application, 0, len(m.apps))
	for _, a := range m.apps {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAppRepo) GetByUID(_ context.Context, uid string) (*model.Application, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.apps[uid]
	if !ok {
		return nil, apperror.NotFound("application", uid)
	}
	result := *a
	return &result, nil
}

func (m *mockAppRepo) Create(_ context.Context, app *model.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	app.UID = "app-" + app.Title
	app.Version = 1
	m.add(app)
	return nil
}

func (m *mockAppRepo) Update(_ context.Context, app *model.Application) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.apps[app.UID]
	if !ok {
		return apperror.NotFound("application", app.UID)
	}
	if m.conflictNext > 0 {
		m.conflictNext--
		// Simulate the concurrent upvoter winning the race: their
		// increment lands and bumps the version.
		stored.Upvotes++
		stored.Version++
		return apperror.Conflict("application", app.UID)
	}
	if app.Version != stored.Version {
		return apperror.Conflict("application", app.UID)
	}
	updated := *app
	updated.Version = stored.Version + 1
	m.apps[app.UID] = &updated
	app.Version = updated.Version
	return nil
}

func (m *mockAppRepo) Publish(_ context.Context, uid, _ string) error {
	m.publishCalls++
	return m.publishErr
}

type mockAuditRepo struct {
	events []repository.EngagementEvent
	err    error
}

func (m *mockAuditRepo) RecordEngagement(_ context.Context, event *repository.EngagementEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAuditRepo) RecentEvents(_ context.Context, limit int) ([]repository.EngagementEvent, error) {
	if limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]repository.EngagementEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEngagement(t *testing.T) (*EngagementService, *mockUserRepo, *mockAppRepo, *mockAuditRepo) {
	t.Helper()
	users := newMockUserRepo()
	apps := newMockAppRepo()
	audit := &mockAuditRepo{}
	svc := NewEngagementService(users, apps, audit, testLogger())
	return svc, users, apps, audit
}
