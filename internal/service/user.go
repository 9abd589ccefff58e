// Package service contains the business logic layer: the user resolver, the
// engagement orchestrator, the read projections, and the catalog/contribution/
// chat flows. Services receive repository interfaces and a logger; they know
// nothing about HTTP.
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

// UserResolver maps a verified identity (email + name) to a CMS user entry,
// creating one on first sign-in.
type UserResolver struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserResolver creates a UserResolver.
func NewUserResolver(users repository.UserRepository, logger *slog.Logger) *UserResolver {
	return &UserResolver{users: users, logger: logger}
}

// ResolveOrCreate returns the CMS user for the given email, creating one
// with empty membership lists if none exists.
//
// The email/name pair must come from a server-validated identity assertion
// (the OAuth callback) — never from a request body.
//
// Errors here mean the sign-in must be aborted: a session without a
// resolvable CMS user would break every engagement feature, so the caller
// treats any failure as an authentication failure (fail-closed).
//
// KNOWN RACE: two concurrent first sign-ins for the same email can both see
// "not found" and both create an entry. The store offers no uniqueness
// constraint on arbitrary fields, so the window is accepted; every reader
// uses first-match-by-email, which keeps a duplicate harmless.
func (r *UserResolver) ResolveOrCreate(ctx context.Context, email, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}

	user, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("resolving user %s: %w", email, err)
	}

	// First sign-in: create the entry with empty membership lists.
	user = &model.User{
		Title:               strings.TrimSpace(name),
		Email:               email,
		UpvotedApplications: []model.Reference{},
		LikedApplications:   []model.Reference{},
	}
	if user.Title == "" {
		user.Title = email
	}

	if err := r.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", email, err)
	}

	r.logger.Info("user created on first sign-in",
		slog.String("userUID", user.UID),
		slog.String("email", email),
	)

	return user, nil
}
