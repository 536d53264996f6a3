// Package matching ranks pilots and drones against a mission using the
// weighted composite scorer. The engine ranks every candidate it is given,
// available or not; eligibility filtering is the caller's concern.
package matching

import (
	"sort"

	"github.com/skylarkops/dronecoord/core/model"
	"github.com/skylarkops/dronecoord/core/scoring"
)

// PilotWeights are the factor weights used to score a pilot.
type PilotWeights struct {
	Skill         float64 `json:"skill"`
	Certification float64 `json:"certification"`
	Location      float64 `json:"location"`
	Availability  float64 `json:"availability"`
}

// DroneWeights are the factor weights used to score a drone.
type DroneWeights struct {
	Capability  float64 `json:"capability"`
	Location    float64 `json:"location"`
	Maintenance float64 `json:"maintenance"`
}

// DefaultPilotWeights returns the standard pilot factor weights.
func DefaultPilotWeights() PilotWeights {
	return PilotWeights{Skill: 0.40, Certification: 0.30, Location: 0.15, Availability: 0.15}
}

// DefaultDroneWeights returns the standard drone factor weights.
func DefaultDroneWeights() DroneWeights {
	return DroneWeights{Capability: 0.50, Location: 0.30, Maintenance: 0.20}
}

// Breakdown maps factor names to their normalized values, so a ranking can
// be audited factor by factor.
type Breakdown map[string]float64

// PilotMatch is one ranked pilot candidate.
type PilotMatch struct {
	Pilot     model.Pilot
	Score     float64
	Breakdown Breakdown
}

// DroneMatch is one ranked drone candidate.
type DroneMatch struct {
	Drone     model.Drone
	Score     float64
	Breakdown Breakdown
}

// Engine scores and ranks candidates. Weights can be tuned per deployment;
// the zero value is unusable, use New.
type Engine struct {
	PilotWeights PilotWeights
	DroneWeights DroneWeights
}

// New returns an engine with the standard weights.
func New() Engine {
	return Engine{PilotWeights: DefaultPilotWeights(), DroneWeights: DefaultDroneWeights()}
}

// ScorePilot computes the weighted score of one pilot for a mission.
func (e Engine) ScorePilot(mission model.Mission, pilot model.Pilot) (float64, Breakdown, error) {
	skill := scoring.SetOverlap(mission.RequiredSkills, pilot.Skills)
	cert := scoring.SetOverlap(mission.RequiredCerts, pilot.Certifications)
	loc := scoring.LocationMatch(pilot.Location, mission.Location)
	avail := 0.0
	if pilot.Available() {
		avail = 1.0
	}
	total, err := scoring.Weighted(map[string]scoring.Factor{
		"skill_match":    {Value: skill, Weight: e.PilotWeights.Skill},
		"cert_match":     {Value: cert, Weight: e.PilotWeights.Certification},
		"location_match": {Value: loc, Weight: e.PilotWeights.Location},
		"availability":   {Value: avail, Weight: e.PilotWeights.Availability},
	})
	if err != nil {
		return 0, nil, err
	}
	return total, Breakdown{
		"skill_match":    skill,
		"cert_match":     cert,
		"location_match": loc,
		"availability":   avail,
	}, nil
}

// ScoreDrone computes the weighted score of one drone for a mission.
// Maintenance safety is binary: the drone is safe only when its maintenance
// due date falls strictly after the mission end date.
func (e Engine) ScoreDrone(mission model.Mission, drone model.Drone) (float64, Breakdown, error) {
	capability := scoring.SetOverlap(mission.RequiredSkills, drone.Capabilities)
	loc := scoring.LocationMatch(drone.Location, mission.Location)
	maint := 0.0
	if !drone.MaintenanceDue.IsZero() && !mission.EndDate.IsZero() && drone.MaintenanceDue.After(mission.EndDate) {
		maint = 1.0
	}
	total, err := scoring.Weighted(map[string]scoring.Factor{
		"capability_match": {Value: capability, Weight: e.DroneWeights.Capability},
		"location_match":   {Value: loc, Weight: e.DroneWeights.Location},
		"maintenance_safe": {Value: maint, Weight: e.DroneWeights.Maintenance},
	})
	if err != nil {
		return 0, nil, err
	}
	return total, Breakdown{
		"capability_match": capability,
		"location_match":   loc,
		"maintenance_safe": maint,
	}, nil
}

// MatchPilots scores every pilot against the mission and returns the full
// ranking, best first. Ties break on ascending pilot id so the output is
// deterministic. Records failing validation abort the call.
func (e Engine) MatchPilots(mission model.Mission, pilots []model.Pilot) ([]PilotMatch, error) {
	if err := mission.Validate(); err != nil {
		return nil, err
	}
	matches := make([]PilotMatch, 0, len(pilots))
	for _, p := range pilots {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		score, breakdown, err := e.ScorePilot(mission, p)
		if err != nil {
			return nil, err
		}
		matches = append(matches, PilotMatch{Pilot: p, Score: score, Breakdown: breakdown})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Pilot.ID < matches[j].Pilot.ID
	})
	return matches, nil
}

// MatchDrones scores every drone against the mission and returns the full
// ranking, best first, ties broken on ascending drone id.
func (e Engine) MatchDrones(mission model.Mission, drones []model.Drone) ([]DroneMatch, error) {
	if err := mission.Validate(); err != nil {
		return nil, err
	}
	matches := make([]DroneMatch, 0, len(drones))
	for _, d := range drones {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		score, breakdown, err := e.ScoreDrone(mission, d)
		if err != nil {
			return nil, err
		}
		matches = append(matches, DroneMatch{Drone: d, Score: score, Breakdown: breakdown})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Drone.ID < matches[j].Drone.ID
	})
	return matches, nil
}
