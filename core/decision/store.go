// Package decision persists an audit trail of coordinator decisions:
// conflict scans, match requests, reassignment plans and applied swaps.
package decision

import (
	"context"
	"time"
)

// Kind tags what sort of decision a record captures.
type Kind string

const (
	KindConflictScan  Kind = "conflict_scan"
	KindMatch         Kind = "match"
	KindReassignPlan  Kind = "reassign_plan"
	KindReassignApply Kind = "reassign_apply"
	KindStatusChange  Kind = "status_change"
)

// Record captures one decision and enough context to audit it later.
type Record struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      Kind           `json:"kind"`
	MissionID string         `json:"mission_id,omitempty"`
	Summary   string         `json:"summary"`
	Details   map[string]any `json:"details,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start     time.Time
	End       time.Time
	Kind      Kind
	MissionID string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// matches reports whether the record passes the query filters.
func (q Query) matches(rec Record) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && rec.Kind != q.Kind {
		return false
	}
	if q.MissionID != "" && rec.MissionID != q.MissionID {
		return false
	}
	return true
}
