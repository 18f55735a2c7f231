// Package model defines the domain types shared across the prospecting pipeline.
package model

import (
	"time"
)

// Confidence is the score-derived quality bucket for an ICP match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// IntentHeat is the recency/frequency-derived urgency tier of a prospect.
type IntentHeat string

const (
	HeatCold IntentHeat = "cold"
	HeatWarm IntentHeat = "warm"
	HeatHot  IntentHeat = "hot"
)

// LaneStatus represents the state of one per-ICP lane within a run.
type LaneStatus string

const (
	LaneStatusPending   LaneStatus = "pending"
	LaneStatusRunning   LaneStatus = "running"
	LaneStatusCompleted LaneStatus = "completed"
	LaneStatusFailed    LaneStatus = "failed"
)

// RunStatus represents the overall state of a prospecting run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Prospect is the durable unit of persistence: one deduplicated person,
// keyed by (workspace_id, linkedin_url_canonical).
type Prospect struct {
	ID           string     `json:"id" db:"id"`
	WorkspaceID  string     `json:"workspace_id" db:"workspace_id"`
	FullName     string     `json:"full_name" db:"full_name"`
	SourceURL    string     `json:"source_url" db:"source_url"`
	CanonicalURL string     `json:"linkedin_url_canonical" db:"linkedin_url_canonical"`
	ICP          string     `json:"icp" db:"icp"`
	RoleDetected *string    `json:"role_detected,omitempty" db:"role_detected"`
	MatchScore   int        `json:"icp_match_score" db:"icp_match_score"`
	Confidence   Confidence `json:"icp_confidence" db:"icp_confidence"`
	IntentHeat   IntentHeat `json:"intent_heat" db:"intent_heat"`
	GeoState     *string    `json:"geo_state,omitempty" db:"geo_state"`
	GeoCity      *string    `json:"geo_city,omitempty" db:"geo_city"`
	TimesSeen    int        `json:"times_seen" db:"times_seen"`
	FirstSeenAt  time.Time  `json:"first_seen_at" db:"first_seen_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
