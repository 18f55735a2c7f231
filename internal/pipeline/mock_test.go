package pipeline

import (
	"context"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/pkg/exa"
)

// mockStore implements store.Store in memory, keyed like the real thing.
type mockStore struct {
	prospects map[string]*model.Prospect // key: workspace|canonical
	byID      map[string]*model.Prospect

	findErr   error
	insertErr error
	updateErr error

	inserts int
	updates int
}

func newMockStore() *mockStore {
	return &mockStore{
		prospects: make(map[string]*model.Prospect),
		byID:      make(map[string]*model.Prospect),
	}
}

func (m *mockStore) key(workspaceID, canonicalURL string) string {
	return workspaceID + "|" + canonicalURL
}

func (m *mockStore) FindProspect(_ context.Context, workspaceID, canonicalURL string) (*model.Prospect, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.prospects[m.key(workspaceID, canonicalURL)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockStore) InsertProspect(_ context.Context, p *model.Prospect) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserts++
	if p.ID == "" {
		p.ID = p.CanonicalURL // deterministic stand-in for a UUID
	}
	cp := *p
	m.prospects[m.key(p.WorkspaceID, p.CanonicalURL)] = &cp
	m.byID[cp.ID] = &cp
	return nil
}

func (m *mockStore) UpdateProspectSighting(_ context.Context, id string, timesSeen int, heat model.IntentHeat, score int, confidence model.Confidence) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	p, ok := m.byID[id]
	if !ok {
		return nil
	}
	p.TimesSeen = timesSeen
	p.IntentHeat = heat
	p.MatchScore = score
	p.Confidence = confidence
	return nil
}

func (m *mockStore) ListProspects(_ context.Context, workspaceID string, _ int) ([]model.Prospect, error) {
	var out []model.Prospect
	for _, p := range m.prospects {
		if p.WorkspaceID == workspaceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockStore) EnsureWorkspace(_ context.Context, _, _ string) error { return nil }
func (m *mockStore) Migrate(_ context.Context) error                     { return nil }
func (m *mockStore) Close() error                                        { return nil }

// stubSearch returns canned results per query, or a fixed error.
type stubSearch struct {
	results map[string][]exa.Result
	err     error
	calls   []string
}

func (s *stubSearch) Search(_ context.Context, query string) (*exa.SearchResponse, error) {
	s.calls = append(s.calls, query)
	if s.err != nil {
		return nil, s.err
	}
	return &exa.SearchResponse{Results: s.results[query]}, nil
}
