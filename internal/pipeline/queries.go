// Package pipeline implements the prospecting core: query synthesis,
// candidate scoring, prospect reconciliation, and the run orchestrator.
package pipeline

import (
	"fmt"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/icp"
)

const (
	// maxQueriesPerLane caps the synthesized query list per ICP.
	maxQueriesPerLane = 10

	// Per geography term: how many keywords and role titles get a query.
	keywordsPerGeo = 3
	rolesPerGeo    = 2

	// maxStates limits how many of the caller's states produce queries.
	maxStates = 3
)

// BuildQueries synthesizes the search queries for one ICP lane. A city, when
// given, is the sole geography term; otherwise the first three states are
// used in caller order. Output is deterministic and capped at ten queries.
// An empty geography yields no queries, which the orchestrator treats as "no
// lane work".
func BuildQueries(profile icp.Profile, states []string, city string) []string {
	var geoTerms []string
	switch {
	case city != "":
		geoTerms = []string{city}
	case len(states) > maxStates:
		geoTerms = states[:maxStates]
	default:
		geoTerms = states
	}

	queries := make([]string, 0, len(geoTerms)*(keywordsPerGeo+rolesPerGeo))
	for _, geo := range geoTerms {
		for _, keyword := range head(profile.PositiveKeywords, keywordsPerGeo) {
			queries = append(queries, fmt.Sprintf("%s %s", geo, keyword))
		}
		for _, role := range head(profile.RoleTitles, rolesPerGeo) {
			queries = append(queries, fmt.Sprintf("%s %s", role, geo))
		}
	}

	if len(queries) > maxQueriesPerLane {
		queries = queries[:maxQueriesPerLane]
	}
	return queries
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
