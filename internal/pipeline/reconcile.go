package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/store"
)

// Heat classification windows, measured from a prospect's first sighting.
const (
	hotMinSightings  = 3
	hotWindowDays    = 14
	warmMinSightings = 2
	warmWindowDays   = 30
)

// ClassifyHeat derives the intent-heat tier from sighting frequency and the
// time elapsed since the first sighting. The recompute is unconditional: a
// previously hot prospect regresses to cold when a new sighting lands
// outside both windows.
func ClassifyHeat(timesSeen int, elapsed time.Duration) model.IntentHeat {
	days := elapsed.Hours() / 24
	switch {
	case timesSeen >= hotMinSightings && days <= hotWindowDays:
		return model.HeatHot
	case timesSeen >= warmMinSightings && days <= warmWindowDays:
		return model.HeatWarm
	default:
		return model.HeatCold
	}
}

// Reconciler turns a scored candidate into exactly one prospect mutation:
// an insert on first sighting, or a counter bump with a heat recompute on a
// repeat sighting.
type Reconciler struct {
	store store.Store
	now   func() time.Time
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(st store.Store) *Reconciler {
	return &Reconciler{store: st, now: time.Now}
}

// Reconcile persists one sighting of a scored candidate. geoState and
// geoCity describe the run's geography; either may be empty.
func (r *Reconciler) Reconcile(ctx context.Context, workspaceID, icpID string, sc *Scored, geoState, geoCity string) error {
	existing, err := r.store.FindProspect(ctx, workspaceID, sc.CanonicalURL)
	if err != nil {
		return eris.Wrap(err, "reconcile: find prospect")
	}

	if existing != nil {
		timesSeen := existing.TimesSeen + 1
		heat := ClassifyHeat(timesSeen, r.now().Sub(existing.FirstSeenAt))
		if err := r.store.UpdateProspectSighting(ctx, existing.ID, timesSeen, heat, sc.Score, sc.Confidence); err != nil {
			return eris.Wrap(err, "reconcile: update sighting")
		}
		return nil
	}

	p := &model.Prospect{
		WorkspaceID:  workspaceID,
		FullName:     sc.FullName,
		SourceURL:    sc.Candidate.URL,
		CanonicalURL: sc.CanonicalURL,
		ICP:          icpID,
		MatchScore:   sc.Score,
		Confidence:   sc.Confidence,
		IntentHeat:   model.HeatCold,
		TimesSeen:    1,
		FirstSeenAt:  r.now().UTC(),
		CreatedAt:    r.now().UTC(),
	}
	if sc.RoleDetected != "" {
		p.RoleDetected = &sc.RoleDetected
	}
	if geoState != "" {
		p.GeoState = &geoState
	}
	if geoCity != "" {
		p.GeoCity = &geoCity
	}

	if err := r.store.InsertProspect(ctx, p); err != nil {
		return eris.Wrap(err, "reconcile: insert prospect")
	}
	return nil
}
