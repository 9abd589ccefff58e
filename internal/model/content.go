package model

// Changelog represents a "changelog" content-type entry. Read-only from this
// system's perspective: fetched, filtered by application reference, and
// sorted by release date. Never written.
type Changelog struct {
	UID                  string      `json:"uid"`
	Title                string      `json:"changelog_title"`
	ApplicationReference []Reference `json:"application_reference,omitempty"`
	Version              string      `json:"changelog_version,omitempty"`
	ReleaseDate          string      `json:"release_date,omitempty"`
	ChangeType           string      `json:"change_type,omitempty"`
	Summary              string      `json:"changelog_summary,omitempty"`
	DetailedChanges      string      `json:"detailed_changes,omitempty"`
	BreakingChange       bool        `json:"breaking_change,omitempty"`
	ReleasedBy           string      `json:"released_by,omitempty"`
	CreatedAt            string      `json:"created_at,omitempty"`
}

// References reports whether this changelog points at the given application.
// The reference field is multi-valued in the schema even though entries in
// practice link exactly one application.
func (c *Changelog) References(applicationUID string) bool {
	return containsRef(c.ApplicationReference, applicationUID)
}

// FAQ represents a "faq" content-type entry.
type FAQ struct {
	UID      string `json:"uid"`
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Order    int    `json:"order,omitempty"`
	IsActive bool   `json:"is_active"`
}

// SupportChannel is one item of the support page's channel list.
type SupportChannel struct {
	PlatformName        string `json:"platform_name"`
	PlatformDescription string `json:"platform_description"`
	URIForSupport       string `json:"uri_for_support"`
}

// SupportPage represents the "supportpage" singleton entry.
type SupportPage struct {
	UID                    string           `json:"uid"`
	Title                  string           `json:"title"`
	Intro                  string           `json:"multi_line_textbox,omitempty"`
	SupportChannels        []SupportChannel `json:"support_channels,omitempty"`
	ContributionGuidelines string           `json:"contribution_guidelines,omitempty"`
}

// ValueProposition is one item of the homepage's value proposition list.
type ValueProposition struct {
	Title       string `json:"proposition_title"`
	Description string `json:"proposition_description"`
}

// ContributionCTA is the homepage's call-to-action block.
type ContributionCTA struct {
	Heading     string `json:"cta_heading"`
	Description string `json:"cta_description"`
	URL         string `json:"cta_url"`
}

// Homepage represents the "homepage" singleton entry. Render-only content —
// whatever the CMS returns is passed through.
type Homepage struct {
	UID                  string             `json:"uid"`
	Title                string             `json:"title"`
	HeroDescription      string             `json:"hero_description,omitempty"`
	ValuePropositions    []ValueProposition `json:"value_propositions,omitempty"`
	FeaturedApplications []Reference        `json:"featured_applications,omitempty"`
	ContributionCTA      *ContributionCTA   `json:"contribution_cta,omitempty"`
}
