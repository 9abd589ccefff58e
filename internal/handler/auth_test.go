package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/handler"
	"github.com/sakif/devdocs/internal/service"
)

func newAuthHandler(t *testing.T, tokens *auth.TokenService) (*handler.AuthHandler, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	google := auth.NewGoogleProvider("client-id", "client-secret", "http://localhost:8080/auth/google/callback")
	resolver := service.NewUserResolver(users, testLogger())
	return handler.NewAuthHandler(google, tokens, resolver, testLogger()), users
}

func stateCookieFrom(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == "oauth_state" {
			return c
		}
	}
	return nil
}

func TestHandleLogin(t *testing.T) {
	tokens := newTestTokens(t)
	h, _ := newAuthHandler(t, tokens)

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	state := stateCookieFrom(t, rec.Result())
	if assert.NotNil(t, state, "state cookie must be set") {
		assert.NotEmpty(t, state.Value)
		assert.True(t, state.HttpOnly)

		// The consent URL must round-trip the same state.
		location := rec.Header().Get("Location")
		assert.Contains(t, location, "accounts.google.com")
		assert.Contains(t, location, "state="+state.Value)
		assert.Contains(t, location, "client-id")
	}
}

func TestHandleCallback_StateChecks(t *testing.T) {
	tokens := newTestTokens(t)

	t.Run("missing state cookie", func(t *testing.T) {
		h, _ := newAuthHandler(t, tokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=xyz", nil)
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("state mismatch", func(t *testing.T) {
		h, _ := newAuthHandler(t, tokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=evil", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("user denied consent", func(t *testing.T) {
		h, _ := newAuthHandler(t, tokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied&state=ok", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "ok"})
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?auth=denied", rec.Header().Get("Location"))
		// No session may be issued on a denied flow.
		for _, c := range rec.Result().Cookies() {
			assert.NotEqual(t, auth.SessionCookie, c.Name)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		h, _ := newAuthHandler(t, tokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=ok", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "ok"})
		rec := httptest.NewRecorder()
		h.HandleCallback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	tokens := newTestTokens(t)
	h, _ := newAuthHandler(t, tokens)

	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c
		}
	}
	if assert.NotNil(t, cleared, "session cookie must be cleared") {
		assert.Empty(t, cleared.Value)
		assert.True(t, cleared.MaxAge < 0)
	}
}

func TestHandleMe(t *testing.T) {
	tokens := newTestTokens(t)
	h, _ := newAuthHandler(t, tokens)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req = withSession(t, req, tokens, "u1", "a@x.com")

		rec := serveAuthed(tokens, h.HandleMe, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Email string `json:"email"`
			UID   string `json:"uid"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, "a@x.com", res.Email)
		assert.Equal(t, "u1", res.UID)
	})

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rec := serveAuthed(tokens, h.HandleMe, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := rec.Body.String()
		assert.True(t, strings.Contains(body, "unauthorized"), "body = %s", body)
	})
}
