// Package reassign plans urgent reassignments. Phase 1 draws from the
// available pool; only when it yields nothing viable does phase 2 consider
// displacing resources from Standard or Low priority missions. High and
// Urgent missions are never auto-displaced.
package reassign

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/skylarkops/dronecoord/core/logger"
	"github.com/skylarkops/dronecoord/core/matching"
	"github.com/skylarkops/dronecoord/core/model"
)

// ErrMissionNotFound is returned when the requested mission id is absent
// from the snapshot.
var ErrMissionNotFound = errors.New("mission not found")

// SwapPlan is one proposed reassignment, risk-scored so the operator can
// compare proposals.
type SwapPlan struct {
	ID        string `json:"id"`
	MissionID string `json:"mission_id"`

	Pilot          *model.Pilot       `json:"pilot,omitempty"`
	PilotScore     float64            `json:"pilot_score"`
	PilotBreakdown matching.Breakdown `json:"pilot_breakdown,omitempty"`

	Drone          *model.Drone       `json:"drone,omitempty"`
	DroneScore     float64            `json:"drone_score"`
	DroneBreakdown matching.Breakdown `json:"drone_breakdown,omitempty"`

	DisplacedMissionID string         `json:"displaced_mission_id,omitempty"`
	DisplacedPriority  model.Priority `json:"displaced_priority,omitempty"`

	Phase     int      `json:"phase"`
	RiskScore int      `json:"risk_score"`
	Rationale string   `json:"rationale"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Engine builds swap plans for a mission over a snapshot. Each call is
// stateless; the engine holds only its configuration.
type Engine struct {
	match matching.Engine
	cfg   Config
	log   logger.Logger
}

// New returns a planner using the given matching engine and configuration.
// A nil logger falls back to a no-op logger.
func New(match matching.Engine, cfg Config, log logger.Logger) Engine {
	if log == nil {
		log = logger.Nop{}
	}
	return Engine{match: match, cfg: cfg, log: log}
}

// Plan returns swap proposals for the mission, ordered ascending by risk.
// The mission does not have to be Urgent; priority only affects
// displacement weighting. An empty plan list means no viable candidate
// exists in either phase.
func (e Engine) Plan(missionID string, snap model.Snapshot) ([]SwapPlan, error) {
	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, missionID)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	needPilot := mission.AssignedPilot == ""
	needDrone := mission.AssignedDrone == ""
	if !needPilot && !needDrone {
		e.log.Infof("mission %s is fully assigned, nothing to plan", missionID)
		return nil, nil
	}

	availPilots, err := e.availablePilotMatches(mission, snap)
	if err != nil {
		return nil, err
	}
	availDrones, err := e.availableDroneMatches(mission, snap)
	if err != nil {
		return nil, err
	}

	plans, err := e.phaseOne(mission, needPilot, needDrone, availPilots, availDrones)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		e.log.Infof("no viable candidate in the available pool for %s, scanning displacement pool", missionID)
		plans, err = e.phaseTwo(mission, snap, needPilot, needDrone, availDrones)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].RiskScore < plans[j].RiskScore
	})
	return plans, nil
}

// availablePilotMatches ranks Available pilots with nonzero scores.
func (e Engine) availablePilotMatches(mission model.Mission, snap model.Snapshot) ([]matching.PilotMatch, error) {
	var pool []model.Pilot
	for _, p := range snap.Pilots {
		if p.Available() {
			pool = append(pool, p)
		}
	}
	matches, err := e.match.MatchPilots(mission, pool)
	if err != nil {
		return nil, err
	}
	return nonzeroPilots(matches), nil
}

// availableDroneMatches ranks Available drones with nonzero scores.
func (e Engine) availableDroneMatches(mission model.Mission, snap model.Snapshot) ([]matching.DroneMatch, error) {
	var pool []model.Drone
	for _, d := range snap.Drones {
		if d.Available() {
			pool = append(pool, d)
		}
	}
	matches, err := e.match.MatchDrones(mission, pool)
	if err != nil {
		return nil, err
	}
	return nonzeroDrones(matches), nil
}

// phaseOne proposes plans from the available pool only. Risk carries no
// swap or displacement penalty.
func (e Engine) phaseOne(mission model.Mission, needPilot, needDrone bool, pilots []matching.PilotMatch, drones []matching.DroneMatch) ([]SwapPlan, error) {
	var plans []SwapPlan
	switch {
	case needPilot:
		for _, pm := range pilots {
			plan := SwapPlan{
				ID:             uuid.NewString(),
				MissionID:      mission.ID,
				Phase:          1,
				PilotScore:     pm.Score,
				PilotBreakdown: pm.Breakdown,
				Rationale: fmt.Sprintf("Available pilot %s (%s) matches mission %s",
					pm.Pilot.Name, pm.Pilot.ID, mission.ID),
			}
			pilot := pm.Pilot
			plan.Pilot = &pilot

			scores := []float64{pm.Score}
			missingDrone := false
			if needDrone {
				if len(drones) > 0 {
					drone := drones[0].Drone
					plan.Drone = &drone
					plan.DroneScore = drones[0].Score
					plan.DroneBreakdown = drones[0].Breakdown
					scores = append(scores, drones[0].Score)
				} else {
					missingDrone = true
					plan.Warnings = append(plan.Warnings, "No drone candidate found. Manual drone assignment needed.")
				}
			}
			plan.RiskScore = e.riskScore(scores, false, "", missingDrone)
			plans = append(plans, plan)
		}
	case needDrone:
		// Pilot already assigned, only a drone is missing.
		for _, dm := range drones {
			drone := dm.Drone
			plans = append(plans, SwapPlan{
				ID:             uuid.NewString(),
				MissionID:      mission.ID,
				Phase:          1,
				Drone:          &drone,
				DroneScore:     dm.Score,
				DroneBreakdown: dm.Breakdown,
				RiskScore:      e.riskScore([]float64{dm.Score}, false, "", false),
				Rationale: fmt.Sprintf("Available drone %s (%s) matches mission %s",
					dm.Drone.Model, dm.Drone.ID, mission.ID),
			})
		}
	}
	return plans, nil
}

// phaseTwo proposes plans that displace resources from Standard or Low
// priority missions. Donors are scored as if available: being assigned is
// exactly what the swap would undo.
func (e Engine) phaseTwo(mission model.Mission, snap model.Snapshot, needPilot, needDrone bool, availDrones []matching.DroneMatch) ([]SwapPlan, error) {
	var plans []SwapPlan

	if needPilot {
		donors := donorMissions(snap, mission.ID)
		for _, donor := range donors {
			if donor.AssignedPilot == "" {
				continue
			}
			pilot, ok := snap.PilotByID(donor.AssignedPilot)
			if !ok {
				continue
			}
			scored := pilot
			scored.Status = model.PilotAvailable
			score, breakdown, err := e.match.ScorePilot(mission, scored)
			if err != nil {
				return nil, err
			}
			if score <= e.cfg.MinDisplacementScore {
				continue
			}

			plan := SwapPlan{
				ID:                 uuid.NewString(),
				MissionID:          mission.ID,
				Phase:              2,
				PilotScore:         score,
				PilotBreakdown:     breakdown,
				DisplacedMissionID: donor.ID,
				DisplacedPriority:  donor.Priority,
				Rationale: fmt.Sprintf("Swap pilot %s from %s (priority %s) to mission %s",
					pilot.Name, donor.ID, donor.Priority, mission.ID),
				Warnings: []string{fmt.Sprintf("Mission %s (%s) will be left without a pilot.", donor.ID, donor.Client)},
			}
			plan.Pilot = &pilot

			scores := []float64{score}
			missingDrone := false
			if needDrone {
				if len(availDrones) > 0 {
					drone := availDrones[0].Drone
					plan.Drone = &drone
					plan.DroneScore = availDrones[0].Score
					plan.DroneBreakdown = availDrones[0].Breakdown
					scores = append(scores, availDrones[0].Score)
				} else {
					missingDrone = true
					plan.Warnings = append(plan.Warnings, "No drone candidate found. Manual drone assignment needed.")
				}
			}
			plan.RiskScore = e.riskScore(scores, true, donor.Priority, missingDrone)
			plans = append(plans, plan)
		}
		return plans, nil
	}

	if needDrone {
		donors := donorMissions(snap, mission.ID)
		for _, donor := range donors {
			if donor.AssignedDrone == "" {
				continue
			}
			drone, ok := snap.DroneByID(donor.AssignedDrone)
			if !ok {
				continue
			}
			scored := drone
			scored.Status = model.DroneAvailable
			score, breakdown, err := e.match.ScoreDrone(mission, scored)
			if err != nil {
				return nil, err
			}
			if score <= e.cfg.MinDisplacementScore {
				continue
			}
			plan := SwapPlan{
				ID:                 uuid.NewString(),
				MissionID:          mission.ID,
				Phase:              2,
				DroneScore:         score,
				DroneBreakdown:     breakdown,
				DisplacedMissionID: donor.ID,
				DisplacedPriority:  donor.Priority,
				RiskScore:          e.riskScore([]float64{score}, true, donor.Priority, false),
				Rationale: fmt.Sprintf("Swap drone %s from %s (priority %s) to mission %s",
					drone.Model, donor.ID, donor.Priority, mission.ID),
				Warnings: []string{fmt.Sprintf("Mission %s (%s) will be left without a drone.", donor.ID, donor.Client)},
			}
			plan.Drone = &drone
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

// donorMissions returns Standard and Low priority missions other than the
// target, lowest priority first, ties on mission id. High and Urgent
// missions never donate.
func donorMissions(snap model.Snapshot, excludeID string) []model.Mission {
	var donors []model.Mission
	for _, m := range snap.Missions {
		if m.ID == excludeID {
			continue
		}
		if m.Priority == model.PriorityStandard || m.Priority == model.PriorityLow {
			donors = append(donors, m)
		}
	}
	sort.SliceStable(donors, func(i, j int) bool {
		if donors[i].Priority.Rank() != donors[j].Priority.Rank() {
			return donors[i].Priority.Rank() > donors[j].Priority.Rank()
		}
		return donors[i].ID < donors[j].ID
	})
	return donors
}

func nonzeroPilots(matches []matching.PilotMatch) []matching.PilotMatch {
	var out []matching.PilotMatch
	for _, m := range matches {
		if m.Score > 0 {
			out = append(out, m)
		}
	}
	return out
}

func nonzeroDrones(matches []matching.DroneMatch) []matching.DroneMatch {
	var out []matching.DroneMatch
	for _, m := range matches {
		if m.Score > 0 {
			out = append(out, m)
		}
	}
	return out
}
