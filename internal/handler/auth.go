package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/service"
)

// AuthHandler manages the Google OAuth login flow and session lifecycle.
//
//   - HandleLogin    → redirect the browser to Google's consent page
//   - HandleCallback → verify state, exchange the code, resolve the CMS
//     user (fail-closed), issue the session cookie
//   - HandleLogout   → clear the session cookie
//   - HandleMe       → return the current identity and CMS record
type AuthHandler struct {
	google   *auth.GoogleProvider
	tokens   *auth.TokenService
	resolver *service.UserResolver
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	google *auth.GoogleProvider,
	tokens *auth.TokenService,
	resolver *service.UserResolver,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google:   google,
		tokens:   tokens,
		resolver: resolver,
		logger:   logger,
	}
}

const stateCookie = "oauth_state"

// HandleLogin redirects the user to Google's consent page.
//
// HTTP: GET /auth/google/login
//
// The random state value goes into a short-lived HttpOnly cookie; the
// callback verifies the round-tripped state against it (CSRF guard).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // long enough to approve, short enough to limit replay
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth sign-in.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// FAIL-CLOSED RESOLUTION:
// After the code exchange we resolve-or-create the CMS user for the verified
// email. If that fails, the WHOLE sign-in fails — a session whose email has
// no CMS user behind it would break every engagement feature, so no cookie
// is issued.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// State is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	gUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: Google exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.resolver.ResolveOrCreate(r.Context(), gUser.Email, gUser.Name)
	if err != nil {
		h.logger.Error("auth callback: user resolution failed",
			slog.String("email", gUser.Email),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.tokens.Generate(auth.Identity{
		UserUID: user.UID,
		Email:   user.Email,
		Name:    user.Title,
	})
	if err != nil {
		h.logger.Error("auth callback: token generation failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true in production (HTTPS only).
	})

	h.logger.Info("user signed in",
		slog.String("userUID", user.UID),
		slog.String("email", user.Email),
	)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
//
// Stateless sessions mean "logout" is just deleting the cookie; the token
// stays technically valid until expiry but the browser no longer sends it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type meResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	UID   string `json:"uid"`
}

// HandleMe returns the current authenticated identity.
//
// HTTP: GET /api/me
// Auth: required.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Email: id.Email,
		Name:  id.Name,
		UID:   id.UserUID,
	})
}
