package model

// KeyFeature is one item of an application's "app_key_features" group field.
type KeyFeature struct {
	Title       string `json:"app_key_feature_title"`
	Description string `json:"app_key_features_description"`
}

// UsefulLink is one item of an application's "app_useful_links" group field.
type UsefulLink struct {
	Label string `json:"link_label,omitempty"`
	URL   string `json:"link_url,omitempty"`
}

// Application represents an "application" content-type entry in the CMS.
//
// The descriptive fields (descriptions, getting started, features, links) are
// opaque payload as far as this server is concerned — they're fetched and
// returned, never interpreted. The one field with real semantics here is
// Upvotes: a non-negative counter that only the engagement orchestrator may
// change, and only by incrementing.
type Application struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Upvotes int    `json:"upvotes"`
	Version int    `json:"_version,omitempty"`
	Locale  string `json:"locale,omitempty"`

	AppDescription  string `json:"app_description,omitempty"`
	MainDescription string `json:"main_description,omitempty"`
	GettingStarted  string `json:"getting_started,omitempty"`

	KeyFeatures []KeyFeature `json:"app_key_features,omitempty"`
	UsefulLinks []UsefulLink `json:"app_useful_links,omitempty"`

	AppCategory       string   `json:"app_category,omitempty"`
	AppTags           []string `json:"app_tags,omitempty"`
	ApplicationStatus string   `json:"application_status,omitempty"`
	MaintainerName    string   `json:"maintainer_name,omitempty"`

	// Set by the contribution workflow; entries created through
	// POST /api/contribute stay drafts until a reviewer publishes them.
	ContributedBy      string `json:"contributed_by,omitempty"`
	ContributionStatus string `json:"contribution_status,omitempty"`
}

// ApplicationSummary is the projection shape returned by the engagement
// state endpoint: just enough to render a link in the profile UI.
type ApplicationSummary struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
}
