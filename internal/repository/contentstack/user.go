package contentstack

import (
	"context"
	"fmt"

	"github.com/sakif/devdocs/internal/apperror"
	"github.com/sakif/devdocs/internal/model"
)

// FindByEmail returns the first user entry whose email field matches exactly.
//
// The email filter is a Management API JSON query, so this is a
// case-sensitive equality match — "A@x.com" and "a@x.com" are different
// users as far as this system is concerned. If two entries ever share an
// email (the accepted first-sign-in race), the first match wins everywhere,
// which keeps the duplicate benign.
func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var users []model.User
	err := s.client.QueryEntries(ctx, typeUser, map[string]any{"email": email}, &users)
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, apperror.NotFound("user", email)
	}
	return &users[0], nil
}

// GetByUID fetches the latest draft of a user entry.
func (s *Store) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := s.client.FetchEntry(ctx, typeUser, uid, &user); err != nil {
		return nil, translate(err, "user", uid)
	}
	return &user, nil
}

// userPayload is the writable subset of a user entry. Never includes uid or
// version — those travel out-of-band.
type userPayload struct {
	Title               string            `json:"title"`
	Email               string            `json:"email"`
	UpvotedApplications []model.Reference `json:"upvoted_applications"`
	LikedApplications   []model.Reference `json:"liked_applications"`
}

// Create persists a new user entry and fills in the CMS-assigned uid.
func (s *Store) Create(ctx context.Context, user *model.User) error {
	payload := userPayload{
		Title:               user.Title,
		Email:               user.Email,
		UpvotedApplications: emptyIfNil(user.UpvotedApplications),
		LikedApplications:   emptyIfNil(user.LikedApplications),
	}

	var created model.User
	if err := s.client.CreateEntry(ctx, typeUser, payload, &created); err != nil {
		return fmt.Errorf("creating user entry: %w", err)
	}
	user.UID = created.UID
	user.Version = created.Version
	return nil
}

// Update writes the user's mutable fields back at the version the caller
// fetched. A concurrent writer surfaces as apperror.ErrConflict.
func (s *Store) Update(ctx context.Context, user *model.User) error {
	payload := userPayload{
		Title:               user.Title,
		Email:               user.Email,
		UpvotedApplications: emptyIfNil(user.UpvotedApplications),
		LikedApplications:   emptyIfNil(user.LikedApplications),
	}

	var updated model.User
	err := s.client.UpdateEntry(ctx, typeUser, user.UID, payload, user.Version, &updated)
	if err != nil {
		return translate(err, "user", user.UID)
	}
	user.Version = updated.Version
	return nil
}

// Publish makes the user's draft state visible to the delivery view.
func (s *Store) Publish(ctx context.Context, uid, locale string) error {
	return s.publish(ctx, typeUser, uid, locale)
}

// emptyIfNil keeps reference lists serialising as [] rather than null —
// the Management API rejects null for multi-reference fields.
func emptyIfNil(refs []model.Reference) []model.Reference {
	if refs == nil {
		return []model.Reference{}
	}
	return refs
}
