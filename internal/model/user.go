// Package model defines the data structures used throughout the application.
//
// All of these map onto Contentstack content-type entries. The CMS returns
// loosely-typed JSON; these structs are the typed boundary — every entry is
// decoded into one of these at the repository layer, never passed around as
// map[string]any.
package model

// Reference is a single entry in a Contentstack reference field.
//
// The Management API represents references as {"uid": ..., "_content_type_uid": ...}.
// Both fields must be round-tripped exactly — writing a reference list back
// without _content_type_uid silently drops the link on the CMS side.
type Reference struct {
	UID            string `json:"uid"`
	ContentTypeUID string `json:"_content_type_uid"`
}

// ApplicationRef builds a reference to an application entry.
func ApplicationRef(uid string) Reference {
	return Reference{UID: uid, ContentTypeUID: "application"}
}

// User represents a "users" content-type entry in the CMS.
//
// Users are created lazily on first successful sign-in (see the user resolver
// in the service package) and are keyed by email — the OAuth session gives us
// a verified email, and that is the only identity this system trusts. The
// CMS-assigned UID is immutable but unknown until the entry exists.
//
// WHY Title FOR THE NAME?
// Contentstack requires every entry to have a "title" field; the users
// content type uses it for the display name.
type User struct {
	UID     string `json:"uid"`
	Title   string `json:"title"` // display name
	Email   string `json:"email"`
	Version int    `json:"_version,omitempty"`
	Locale  string `json:"locale,omitempty"`

	// Membership lists. Set semantics (each application uid at most once)
	// are enforced by the engagement orchestrator, NOT by the store — the
	// CMS happily persists duplicate references.
	UpvotedApplications []Reference `json:"upvoted_applications"`
	LikedApplications   []Reference `json:"liked_applications"`
}

// HasUpvoted reports whether the user's upvote list already contains the
// given application uid.
func (u *User) HasUpvoted(applicationUID string) bool {
	return containsRef(u.UpvotedApplications, applicationUID)
}

// HasLiked reports whether the user's like list already contains the given
// application uid.
func (u *User) HasLiked(applicationUID string) bool {
	return containsRef(u.LikedApplications, applicationUID)
}

func containsRef(refs []Reference, uid string) bool {
	for _, r := range refs {
		if r.UID == uid {
			return true
		}
	}
	return false
}
