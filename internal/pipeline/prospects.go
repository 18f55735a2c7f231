package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/store"
)

// ListProspects is the prospect read surface: the newest page of prospects
// for a workspace (capped before filtering), narrowed by the optional
// filter fields in process.
func ListProspects(ctx context.Context, st store.Store, workspaceID string, filter store.ProspectFilter) ([]model.Prospect, error) {
	prospects, err := st.ListProspects(ctx, workspaceID, store.DefaultListLimit)
	if err != nil {
		return nil, eris.Wrap(err, "prospects: list")
	}
	return filter.Apply(prospects), nil
}
