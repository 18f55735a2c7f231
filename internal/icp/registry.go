package icp

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Default scoring parameters shared by the built-in profiles.
var (
	defaultWeights    = Weights{Keyword: 2, Role: 2, Geo: 1, Penalty: -3}
	defaultThresholds = Thresholds{Keep: 2, High: 4}
)

// coachingKeywords disqualify coaching/guru content across every built-in
// profile: those pages sell to investors rather than being investors.
var coachingKeywords = []string{"coach", "mentor", "course", "academy", "training", "guru"}

// builtins are the five profiles that ship by default.
var builtins = []Profile{
	{
		ID:    "wholesaler",
		Label: "Wholesaler",
		PositiveKeywords: []string{
			"wholesaler", "wholesale real estate", "assignment investor",
			"acquisitions", "dispositions", "deal sourcer", "off market",
		},
		RoleTitles:       []string{"Wholesaler", "Acquisitions Manager", "Dispositions Manager", "Deal Sourcer"},
		NegativeKeywords: coachingKeywords,
		Weights:          defaultWeights,
		Thresholds:       defaultThresholds,
	},
	{
		ID:    "flipper",
		Label: "House Flipper",
		PositiveKeywords: []string{
			"house flipper", "fix and flip", "rehab", "renovation investor", "property flipper",
		},
		RoleTitles:       []string{"House Flipper", "Fix and Flip Investor", "Renovation Specialist"},
		NegativeKeywords: coachingKeywords,
		Weights:          defaultWeights,
		Thresholds:       defaultThresholds,
	},
	{
		ID:    "buy_hold",
		Label: "Buy & Hold Investor",
		PositiveKeywords: []string{
			"landlord", "buy and hold", "rental investor", "rental portfolio", "BRRRR",
		},
		RoleTitles:       []string{"Landlord", "Rental Property Investor", "Portfolio Owner"},
		NegativeKeywords: coachingKeywords,
		Weights:          defaultWeights,
		Thresholds:       defaultThresholds,
	},
	{
		ID:    "agent",
		Label: "Real Estate Agent",
		PositiveKeywords: []string{
			"realtor", "real estate agent", "broker", "listing agent", "buyer agent",
		},
		RoleTitles:       []string{"Realtor", "Real Estate Agent", "Real Estate Broker"},
		NegativeKeywords: coachingKeywords,
		Weights:          defaultWeights,
		Thresholds:       defaultThresholds,
	},
	{
		ID:    "institutional",
		Label: "Institutional Investor",
		PositiveKeywords: []string{
			"institutional investor", "hedge fund", "private equity", "family office", "fund manager",
		},
		RoleTitles:       []string{"Fund Manager", "Asset Manager", "Portfolio Manager", "VP Acquisitions"},
		NegativeKeywords: coachingKeywords,
		Weights:          defaultWeights,
		Thresholds:       defaultThresholds,
	},
}

// Registry is an immutable lookup of ICP profiles, built once at startup.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from the given profiles.
func NewRegistry(profiles []Profile) *Registry {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p.clone()
	}
	return &Registry{profiles: m}
}

// Builtin returns a registry holding the five default profiles.
func Builtin() *Registry {
	return NewRegistry(builtins)
}

// Get returns the profile for the given ICP identifier.
func (r *Registry) Get(id string) (Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, eris.Errorf("icp: unknown profile %q", id)
	}
	return p.clone(), nil
}

// IDs returns the registered profile identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns all profiles ordered by identifier.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, id := range r.IDs() {
		out = append(out, r.profiles[id].clone())
	}
	return out
}
