package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/icp"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
)

// Candidate is one ephemeral search-result item entering the scorer.
type Candidate struct {
	URL   string
	Title string
	Text  string
}

// Scored is a candidate that passed the URL gate and the score threshold.
type Scored struct {
	Candidate    Candidate
	Score        int
	Confidence   model.Confidence
	RoleDetected string
	FullName     string
	CanonicalURL string
}

// profileSlugPattern extracts the LinkedIn profile path used for both the
// URL gate and canonicalization. The slug stops at the next slash or query
// string, which also discards tracking parameters.
var profileSlugPattern = regexp.MustCompile(`linkedin\.com/in/([^/?]+)`)

// upperFirst capitalizes the first letter of each token without lowercasing
// the rest, so slugs like "jane-doe-MBA" keep their casing.
var upperFirst = cases.Title(language.English, cases.NoLower)

// ScoreCandidate decides keep/drop for one candidate and computes its score,
// confidence, detected role, display name, and canonical URL. geoState is
// the run's primary geography term; it is empty for city-only runs. Returns
// nil when the candidate is dropped.
//
// Keyword, role, and negative lists are scanned in declaration order and the
// scan stops at the first match: list order decides which role label gets
// recorded, and multiple hits never stack.
func ScoreCandidate(profile icp.Profile, cand Candidate, geoState string) *Scored {
	slug := profileSlug(cand.URL)
	if slug == "" {
		return nil
	}

	text := strings.ToLower(cand.Title + " " + cand.Text)

	score := 0
	for _, keyword := range profile.PositiveKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += profile.Weights.Keyword
			break
		}
	}

	role := ""
	for _, title := range profile.RoleTitles {
		if strings.Contains(text, strings.ToLower(title)) {
			score += profile.Weights.Role
			role = title
			break
		}
	}

	if geoState != "" && strings.Contains(text, strings.ToLower(geoState)) {
		score += profile.Weights.Geo
	}

	for _, negative := range profile.NegativeKeywords {
		if strings.Contains(text, strings.ToLower(negative)) {
			score += profile.Weights.Penalty
			break
		}
	}

	if score < profile.Thresholds.Keep {
		return nil
	}

	confidence := model.ConfidenceLow
	switch {
	case score >= profile.Thresholds.High:
		confidence = model.ConfidenceHigh
	case score >= profile.Thresholds.Keep:
		confidence = model.ConfidenceMedium
	}

	return &Scored{
		Candidate:    cand,
		Score:        score,
		Confidence:   confidence,
		RoleDetected: role,
		FullName:     extractName(slug, cand.Title),
		CanonicalURL: "https://www.linkedin.com/in/" + slug,
	}
}

// profileSlug returns the profile path segment of a LinkedIn profile URL, or
// empty when the URL is not a profile page.
func profileSlug(rawURL string) string {
	m := profileSlugPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractName derives a display name from the profile slug: hyphens become
// spaces and each token is capitalized. Falls back to the result title, then
// to "Unknown".
func extractName(slug, title string) string {
	if slug != "" {
		return upperFirst.String(strings.ReplaceAll(slug, "-", " "))
	}
	if title != "" {
		return title
	}
	return "Unknown"
}

// CanonicalURL returns the canonical profile URL for a raw result URL,
// falling back to the raw URL when no profile path can be extracted.
func CanonicalURL(rawURL string) string {
	if slug := profileSlug(rawURL); slug != "" {
		return "https://www.linkedin.com/in/" + slug
	}
	return rawURL
}
