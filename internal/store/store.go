// Package store persists prospect records. Two drivers are provided:
// Postgres via pgx for deployments and SQLite for local runs.
package store

import (
	"context"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
)

// Store defines the persistence interface for the prospecting pipeline.
//
// FindProspect returns nil (no error) when no row matches: absence is a
// normal reconcile outcome, not a failure.
type Store interface {
	FindProspect(ctx context.Context, workspaceID, canonicalURL string) (*model.Prospect, error)
	InsertProspect(ctx context.Context, p *model.Prospect) error
	UpdateProspectSighting(ctx context.Context, id string, timesSeen int, heat model.IntentHeat, score int, confidence model.Confidence) error
	ListProspects(ctx context.Context, workspaceID string, limit int) ([]model.Prospect, error)
	EnsureWorkspace(ctx context.Context, id, name string) error

	Migrate(ctx context.Context) error
	Close() error
}

// DefaultListLimit caps the prospect read surface before in-process
// filtering.
const DefaultListLimit = 500

// ProspectFilter narrows a listed page of prospects. Filtering happens in
// process after the capped fetch.
type ProspectFilter struct {
	ICP        string
	Confidence model.Confidence
	IntentHeat model.IntentHeat
	GeoState   string
}

// Apply returns the prospects matching every set filter field.
func (f ProspectFilter) Apply(prospects []model.Prospect) []model.Prospect {
	out := make([]model.Prospect, 0, len(prospects))
	for _, p := range prospects {
		if f.ICP != "" && p.ICP != f.ICP {
			continue
		}
		if f.Confidence != "" && p.Confidence != f.Confidence {
			continue
		}
		if f.IntentHeat != "" && p.IntentHeat != f.IntentHeat {
			continue
		}
		if f.GeoState != "" && (p.GeoState == nil || *p.GeoState != f.GeoState) {
			continue
		}
		out = append(out, p)
	}
	return out
}
