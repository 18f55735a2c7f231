package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite for local runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path with WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS workspaces (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS people_prospects (
	id                     TEXT PRIMARY KEY,
	workspace_id           TEXT NOT NULL REFERENCES workspaces(id),
	full_name              TEXT,
	source_url             TEXT,
	linkedin_url_canonical TEXT NOT NULL,
	icp                    TEXT,
	role_detected          TEXT,
	icp_match_score        INTEGER,
	icp_confidence         TEXT CHECK (icp_confidence IN ('high', 'medium', 'low')),
	intent_heat            TEXT CHECK (intent_heat IN ('cold', 'warm', 'hot')) DEFAULT 'cold',
	geo_state              TEXT,
	geo_city               TEXT,
	times_seen             INTEGER NOT NULL DEFAULT 1,
	first_seen_at          DATETIME NOT NULL,
	created_at             DATETIME NOT NULL,
	UNIQUE (workspace_id, linkedin_url_canonical)
);

CREATE INDEX IF NOT EXISTS idx_people_prospects_workspace ON people_prospects (workspace_id);
CREATE INDEX IF NOT EXISTS idx_people_prospects_icp ON people_prospects (workspace_id, icp);
CREATE INDEX IF NOT EXISTS idx_people_prospects_intent ON people_prospects (workspace_id, intent_heat);

CREATE TABLE IF NOT EXISTS search_queries (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	run_id       TEXT,
	icp          TEXT,
	query        TEXT NOT NULL,
	executed_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate applies the schema and seeds the default workspace.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workspaces (id, name) VALUES (?, ?)`,
		"00000000-0000-0000-0000-000000000001", "Default Workspace",
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed default workspace")
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureWorkspace inserts a workspace row if it does not exist.
func (s *SQLiteStore) EnsureWorkspace(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workspaces (id, name) VALUES (?, ?)`,
		id, name,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: ensure workspace %s", id)
	}
	return nil
}

// FindProspect looks up a prospect by its dedup key. Returns nil when no row
// matches.
func (s *SQLiteStore) FindProspect(ctx context.Context, workspaceID, canonicalURL string) (*model.Prospect, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+prospectColumns+`
		FROM people_prospects
		WHERE workspace_id = ? AND linkedin_url_canonical = ?
		LIMIT 1`,
		workspaceID, canonicalURL,
	)

	p, err := scanSQLiteProspect(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: find prospect")
	}
	return p, nil
}

// InsertProspect inserts a first-sighting prospect row.
func (s *SQLiteStore) InsertProspect(ctx context.Context, p *model.Prospect) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.FirstSeenAt.IsZero() {
		p.FirstSeenAt = now
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO people_prospects (
			id, workspace_id, full_name, source_url, linkedin_url_canonical,
			icp, role_detected, icp_match_score, icp_confidence, intent_heat,
			geo_state, geo_city, times_seen, first_seen_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.FullName, p.SourceURL, p.CanonicalURL,
		p.ICP, p.RoleDetected, p.MatchScore, string(p.Confidence), string(p.IntentHeat),
		p.GeoState, p.GeoCity, p.TimesSeen, p.FirstSeenAt.UTC(), p.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert prospect %s", p.CanonicalURL)
	}
	return nil
}

// UpdateProspectSighting records a repeat sighting.
func (s *SQLiteStore) UpdateProspectSighting(ctx context.Context, id string, timesSeen int, heat model.IntentHeat, score int, confidence model.Confidence) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE people_prospects
		SET times_seen = ?, intent_heat = ?, icp_match_score = ?, icp_confidence = ?
		WHERE id = ?`,
		timesSeen, string(heat), score, string(confidence), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update sighting %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: update sighting %s: no row", id)
	}
	return nil
}

// ListProspects returns the newest prospects for a workspace, capped at
// limit.
func (s *SQLiteStore) ListProspects(ctx context.Context, workspaceID string, limit int) ([]model.Prospect, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prospectColumns+`
		FROM people_prospects
		WHERE workspace_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list prospects")
	}
	defer rows.Close() //nolint:errcheck

	var prospects []model.Prospect
	for rows.Next() {
		p, err := scanSQLiteProspect(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prospect")
		}
		prospects = append(prospects, *p)
	}
	return prospects, rows.Err()
}

// scanSQLiteProspect scans one row via the given Scan func, converting the
// tier columns from their TEXT representation.
func scanSQLiteProspect(scan func(dest ...any) error) (*model.Prospect, error) {
	var p model.Prospect
	var confidence, heat string
	if err := scan(
		&p.ID, &p.WorkspaceID, &p.FullName, &p.SourceURL, &p.CanonicalURL,
		&p.ICP, &p.RoleDetected, &p.MatchScore, &confidence, &heat,
		&p.GeoState, &p.GeoCity, &p.TimesSeen, &p.FirstSeenAt, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Confidence = model.Confidence(confidence)
	p.IntentHeat = model.IntentHeat(heat)
	return &p, nil
}
