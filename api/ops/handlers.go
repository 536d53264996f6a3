// Package ops exposes the coordinator over HTTP: mission matching,
// conflict scans, reassignment planning and the decision log.
package ops

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/skylarkops/dronecoord/core/conflict"
	"github.com/skylarkops/dronecoord/core/decision"
	"github.com/skylarkops/dronecoord/core/matching"
	"github.com/skylarkops/dronecoord/core/reassign"
)

// Coordinator is the slice of the application service the handlers need.
type Coordinator interface {
	MatchPilots(missionID string) ([]matching.PilotMatch, error)
	MatchDrones(missionID string) ([]matching.DroneMatch, error)
	DetectConflicts() ([]conflict.Conflict, error)
	PlanReassignment(missionID string) ([]reassign.SwapPlan, error)
}

// NewMatchHandler returns an HTTP handler serving candidate rankings via
// GET /api/match?mission_id=<id>&kind=pilot|drone. kind defaults to pilot.
func NewMatchHandler(c Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		missionID := r.URL.Query().Get("mission_id")
		if missionID == "" {
			http.Error(w, "mission_id is required", http.StatusBadRequest)
			return
		}
		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = "pilot"
		}

		var payload any
		var err error
		switch kind {
		case "pilot":
			payload, err = c.MatchPilots(missionID)
		case "drone":
			payload, err = c.MatchDrones(missionID)
		default:
			http.Error(w, "kind must be pilot or drone", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"mission_id": missionID, "kind": kind, "matches": payload})
	})
}

// NewConflictsHandler returns an HTTP handler running a conflict scan via
// GET /api/conflicts.
func NewConflictsHandler(c Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		conflicts, err := c.DetectConflicts()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"count": len(conflicts), "conflicts": conflicts})
	})
}

// NewReassignHandler returns an HTTP handler proposing swap plans via
// POST /api/reassign?mission_id=<id>. Plans are proposals only; nothing is
// applied.
func NewReassignHandler(c Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		missionID := r.URL.Query().Get("mission_id")
		if missionID == "" {
			http.Error(w, "mission_id is required", http.StatusBadRequest)
			return
		}
		plans, err := c.PlanReassignment(missionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"mission_id": missionID, "plans": plans})
	})
}

// NewDecisionsHandler returns an HTTP handler exposing the decision log via
// GET /api/decisions. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewDecisionsHandler(store decision.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := decision.Query{
			Kind:      decision.Kind(r.URL.Query().Get("kind")),
			MissionID: r.URL.Query().Get("mission_id"),
		}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, reassign.ErrMissionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
