// Package conflict scans a snapshot for assignment violations. Each call is
// a full rescan: the mutation rate of the domain is low enough that
// incremental detection is not worth its complexity.
package conflict

import (
	"github.com/skylarkops/dronecoord/core/model"
)

// Type tags a conflict category. The strings are part of the external
// contract and must not change.
type Type string

const (
	TypeDoubleBooking    Type = "Double Booking"
	TypeSkillMismatch    Type = "Skill Mismatch"
	TypeMaintenance      Type = "Maintenance"
	TypeLocationMismatch Type = "Location Mismatch"
)

// Severity classifies how blocking a conflict is. The strings are part of
// the external contract and must not change.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
)

// Conflict is one detected violation.
type Conflict struct {
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	EntityID    string   `json:"entity_id"`
	EntityName  string   `json:"entity_name"`
	MissionID   string   `json:"mission_id"`
	Description string   `json:"description"`
}

// detector inspects the snapshot and reports zero or more conflicts.
// Detectors must not mutate the snapshot.
type detector func(model.Snapshot) []Conflict

// detectors run in fixed order so two scans of the same snapshot produce
// identical output.
var detectors = []detector{
	pilotDoubleBookings,
	droneDoubleBookings,
	skillMismatches,
	maintenanceConflicts,
	locationMismatches,
}

// Detect runs every detector over the snapshot and returns the combined,
// deterministically ordered conflict list.
func Detect(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, d := range detectors {
		conflicts = append(conflicts, d(snap)...)
	}
	return conflicts
}
