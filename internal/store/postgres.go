package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/db"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// preparedStatements lists the hot reconcile-path queries to prepare on each
// new connection.
var preparedStatements = map[string]string{
	"find_prospect": `SELECT ` + prospectColumns + `
		FROM people_prospects
		WHERE workspace_id = $1 AND linkedin_url_canonical = $2
		LIMIT 1`,
	"update_sighting": `UPDATE people_prospects
		SET times_seen = $2, intent_heat = $3, icp_match_score = $4, icp_confidence = $5
		WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS workspaces (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS people_prospects (
	id                     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	workspace_id           UUID NOT NULL REFERENCES workspaces(id),
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
	first_seen_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (workspace_id, linkedin_url_canonical)
);

CREATE INDEX IF NOT EXISTS idx_people_prospects_workspace ON people_prospects (workspace_id);
CREATE INDEX IF NOT EXISTS idx_people_prospects_icp ON people_prospects (workspace_id, icp);
CREATE INDEX IF NOT EXISTS idx_people_prospects_intent ON people_prospects (workspace_id, intent_heat);
CREATE INDEX IF NOT EXISTS idx_people_prospects_created ON people_prospects (workspace_id, created_at DESC);

-- Reserved for query-history-driven rotation; the pipeline does not write it yet.
CREATE TABLE IF NOT EXISTS search_queries (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	workspace_id UUID NOT NULL REFERENCES workspaces(id),
	run_id       UUID,
	icp          TEXT,
	query        TEXT NOT NULL,
	executed_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema and seeds the default workspace.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO workspaces (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		"00000000-0000-0000-0000-000000000001", "Default Workspace",
	)
	if err != nil {
		return eris.Wrap(err, "postgres: seed default workspace")
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureWorkspace inserts a workspace row if it does not exist.
func (s *PostgresStore) EnsureWorkspace(ctx context.Context, id, name string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO workspaces (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, name,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: ensure workspace %s", id)
	}
	return nil
}

// FindProspect looks up a prospect by its dedup key. Returns nil when no row
// matches.
func (s *PostgresStore) FindProspect(ctx context.Context, workspaceID, canonicalURL string) (*model.Prospect, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+prospectColumns+`
		FROM people_prospects
		WHERE workspace_id = $1 AND linkedin_url_canonical = $2
		LIMIT 1`,
		workspaceID, canonicalURL,
	)

	p, err := scanProspect(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: find prospect")
	}
	return p, nil
}

// InsertProspect inserts a first-sighting prospect row. A missing ID is
// generated.
func (s *PostgresStore) InsertProspect(ctx context.Context, p *model.Prospect) error {
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

	_, err := s.pool.Exec(ctx,
		`INSERT INTO people_prospects (
			id, workspace_id, full_name, source_url, linkedin_url_canonical,
			icp, role_detected, icp_match_score, icp_confidence, intent_heat,
			geo_state, geo_city, times_seen, first_seen_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.WorkspaceID, p.FullName, p.SourceURL, p.CanonicalURL,
		p.ICP, p.RoleDetected, p.MatchScore, string(p.Confidence), string(p.IntentHeat),
		p.GeoState, p.GeoCity, p.TimesSeen, p.FirstSeenAt, p.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert prospect %s", p.CanonicalURL)
	}
	return nil
}

// UpdateProspectSighting records a repeat sighting: bumped counter,
// recomputed heat, and the latest score/confidence.
func (s *PostgresStore) UpdateProspectSighting(ctx context.Context, id string, timesSeen int, heat model.IntentHeat, score int, confidence model.Confidence) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE people_prospects
		SET times_seen = $2, intent_heat = $3, icp_match_score = $4, icp_confidence = $5
		WHERE id = $1`,
		id, timesSeen, string(heat), score, string(confidence),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update sighting %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: update sighting %s: no row", id)
	}
	return nil
}

// ListProspects returns the newest prospects for a workspace, capped at
// limit.
func (s *PostgresStore) ListProspects(ctx context.Context, workspaceID string, limit int) ([]model.Prospect, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+prospectColumns+`
		FROM people_prospects
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		workspaceID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list prospects")
	}
	defer rows.Close()

	var prospects []model.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan prospect")
		}
		prospects = append(prospects, *p)
	}
	return prospects, rows.Err()
}

const prospectColumns = `id, workspace_id, full_name, source_url, linkedin_url_canonical,
	icp, role_detected, icp_match_score, icp_confidence, intent_heat,
	geo_state, geo_city, times_seen, first_seen_at, created_at`

func scanProspect(row pgx.Row) (*model.Prospect, error) {
	var p model.Prospect
	var confidence, heat string
	if err := row.Scan(
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
