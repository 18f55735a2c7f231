// Package icp defines the Ideal Customer Profile registry: the static
// vocabulary and scoring parameters for each target-buyer category.
package icp

// Weights holds the additive scoring weights of a profile.
type Weights struct {
	Keyword int `json:"keyword_match"`
	Role    int `json:"role_match"`
	Geo     int `json:"geo_match"`
	Penalty int `json:"coaching_penalty"`
}

// Thresholds holds the score cutoffs of a profile. A candidate is kept when
// its score is at or above Keep; kept scores below High map to the medium
// tier.
type Thresholds struct {
	Keep int `json:"keep"`
	High int `json:"high"`
}

// Profile is one immutable ICP definition. Keyword and role lists are
// ordered: scoring scans them in declaration order and stops at the first
// match, so order decides which role label gets recorded.
type Profile struct {
	ID               string     `json:"id"`
	Label            string     `json:"label"`
	PositiveKeywords []string   `json:"positive_keywords"`
	RoleTitles       []string   `json:"role_titles"`
	NegativeKeywords []string   `json:"negative_keywords"`
	Weights          Weights    `json:"weights"`
	Thresholds       Thresholds `json:"thresholds"`
}

// clone returns a deep copy so registry callers cannot mutate the built-ins.
func (p Profile) clone() Profile {
	out := p
	out.PositiveKeywords = append([]string(nil), p.PositiveKeywords...)
	out.RoleTitles = append([]string(nil), p.RoleTitles...)
	out.NegativeKeywords = append([]string(nil), p.NegativeKeywords...)
	return out
}
