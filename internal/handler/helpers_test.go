package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/model"
	"github.com/sakif/devdocs/internal/repository"
)

// The handler tests run against real services over in-memory repositories,
// with the real auth middleware in front — the only fake pieces are the
// stores themselves.

type fakeUserRepo struct {
	users      map[string]*model.User
	publishErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) seed(uid, email string) *model.User {
	user := &model.User{
		UID:                 uid,
		Title:               email,
		Email:               email,
		Version:             1,
		UpvotedApplications: []model.Reference{},
		LikedApplications:   []model.Reference{},
	}
	f.users[uid] = user
	return user
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, apperror.NotFound("user", uid)
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.UID = "user-" + user.Email
	user.Version = 1
	c := *user
	f.users[user.UID] = &c
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.UID]; !ok {
		return apperror.NotFound("user", user.UID)
	}
	c := *user
	c.Version++
	f.users[user.UID] = &c
	user.Version = c.Version
	return nil
}

func (f *fakeUserRepo) Publish(_ context.Context, _, _ string) error {
	return f.publishErr
}

type fakeAppRepo struct {
	apps map[string]*model.Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[string]*model.Application)}
}

func (f *fakeAppRepo) seed(uid, title string, upvotes int) *model.Application {
	app := &model.Application{UID: uid, Title: title, Version: 1, Upvotes: upvotes}
	f.apps[uid] = app
	return app
}

func (f *fakeAppRepo) List(_ context.Context) ([]model.Application, error) {
	result := make([]model.Application, 0, len(f.apps))
	for _, a := range f.apps {
		result = append(result, *a)
	}
	return result, nil
}

func (f *fakeAppRepo) GetByUID(_ context.Context, uid string) (*model.Application, error) {
	a, ok := f.apps[uid]
	if !ok {
		return nil, apperror.NotFound("application", uid)
	}
	c := *a
	return &c, nil
}

func (f *fakeAppRepo) Create(_ context.Context, app *model.Application) error {
	app.UID = "app-" + app.Title
	app.Version = 1
	c := *app
	f.apps[app.UID] = &c
	return nil
}

func (f *fakeAppRepo) Update(_ context.Context, app *model.Application) error {
	if _, ok := f.apps[app.UID]; !ok {
		return apperror.NotFound("application", app.UID)
	}
	c := *app
	c.Version++
	f.apps[app.UID] = &c
	app.Version = c.Version
	return nil
}

func (f *fakeAppRepo) Publish(_ context.Context, _, _ string) error {
	return nil
}

type fakeContentRepo struct {
	homepage    *model.Homepage
	supportPage *model.SupportPage
	faqs        []model.FAQ
	changelogs  []model.Changelog
}

func (f *fakeContentRepo) Homepage(_ context.Context) (*model.Homepage, error) {
	if f.homepage == nil {
		return nil, apperror.NotFound("homepage", "singleton")
	}
	return f.homepage, nil
}

func (f *fakeContentRepo) SupportPage(_ context.Context) (*model.SupportPage, error) {
	if f.supportPage == nil {
		return nil, apperror.NotFound("supportpage", "singleton")
	}
	return f.supportPage, nil
}

func (f *fakeContentRepo) FAQs(_ context.Context) ([]model.FAQ, error) {
	return f.faqs, nil
}

func (f *fakeContentRepo) Changelogs(_ context.Context) ([]model.Changelog, error) {
	return f.changelogs, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.ApplicationRepository = (*fakeAppRepo)(nil)
var _ repository.ContentRepository = (*fakeContentRepo)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("handler-test-secret-16+chars")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

// withSession attaches a valid session cookie for the given email.
func withSession(t *testing.T, req *http.Request, tokens *auth.TokenService, uid, email string) *http.Request {
	t.Helper()
	token, err := tokens.Generate(auth.Identity{UserUID: uid, Email: email})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	return req
}

// serveAuthed runs the request through RequireAuth and then the handler,
// mirroring the production route wiring.
func serveAuthed(tokens *auth.TokenService, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	auth.RequireAuth(tokens)(h).ServeHTTP(rec, req)
	return rec
}

// authMW wraps a handler in OptionalAuth, like the state route.
func authMW(tokens *auth.TokenService, h http.HandlerFunc) http.Handler {
	return auth.OptionalAuth(tokens)(h)
}
