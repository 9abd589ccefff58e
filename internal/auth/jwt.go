// Package auth provides the Google OAuth flow and JWT session handling.
//
// AUTHENTICATION FLOW:
//  1. User visits /auth/google/login → redirected to Google's consent page
//  2. Google calls back /auth/google/callback with a code
//  3. Server exchanges the code for the user's verified profile (email, name)
//  4. Server resolves-or-creates the CMS user for that email — if this step
//     fails, the whole sign-in fails (downstream engagement features need a
//     resolvable user, so sign-in is fail-closed)
//  5. Server issues a JWT session stored in an HttpOnly cookie
//
// The token is stateless: it carries the identity (CMS user uid, email,
// name) in signed claims, so no session store is needed. The email claim is
// load-bearing — every engagement and profile operation is keyed by email.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long an issued session token stays valid. After
// expiry the user round-trips through Google again; with an active Google
// session that redirect chain is invisible to them.
const SessionDuration = 24 * time.Hour

const issuer = "devdocs"

// Identity is the verified identity carried by a session token.
type Identity struct {
	UserUID string // CMS "users" entry uid
	Email   string
	Name    string
}

// TokenService signs and verifies session tokens with an HMAC secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. Subject holds the CMS user uid; email and name
// are custom claims because the engagement flows are keyed by email, not uid.
type claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given identity.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	if id.Email == "" {
		return "", errors.New("auth: identity must carry an email")
	}

	now := time.Now()
	c := claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token and returns the identity it
// carries.
//
// Pinning HS256 via WithValidMethods blocks algorithm-confusion tokens, and
// the issuer check rejects tokens minted by other apps sharing the secret.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Email == "" {
		return Identity{}, fmt.Errorf("auth: token has no email claim")
	}

	return Identity{
		UserUID: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
	}, nil
}
