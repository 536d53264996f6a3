package conflict

import (
	"fmt"
	"strings"

	"github.com/skylarkops/dronecoord/core/model"
	"github.com/skylarkops/dronecoord/core/scoring"
)

const dateLayout = "2006-01-02"

// pilotDoubleBookings reports every pair of overlapping missions sharing an
// assigned pilot. Pilots are visited in snapshot order and missions in
// snapshot order, keeping the output stable.
func pilotDoubleBookings(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, p := range snap.Pilots {
		var assigned []model.Mission
		for _, m := range snap.Missions {
			if m.AssignedPilot == p.ID {
				assigned = append(assigned, m)
			}
		}
		for i := 0; i < len(assigned); i++ {
			for j := i + 1; j < len(assigned); j++ {
				if !assigned[i].Overlaps(assigned[j]) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Type:       TypeDoubleBooking,
					Severity:   SeverityCritical,
					EntityID:   p.ID,
					EntityName: p.Name,
					MissionID:  assigned[i].ID + " & " + assigned[j].ID,
					Description: fmt.Sprintf(
						"Pilot %s (%s) is assigned to overlapping missions %s (%s to %s) and %s (%s to %s)",
						p.Name, p.ID,
						assigned[i].ID, assigned[i].StartDate.Format(dateLayout), assigned[i].EndDate.Format(dateLayout),
						assigned[j].ID, assigned[j].StartDate.Format(dateLayout), assigned[j].EndDate.Format(dateLayout),
					),
				})
			}
		}
	}
	return conflicts
}

// droneDoubleBookings reports every pair of overlapping missions sharing an
// assigned drone.
func droneDoubleBookings(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, d := range snap.Drones {
		var assigned []model.Mission
		for _, m := range snap.Missions {
			if m.AssignedDrone == d.ID {
				assigned = append(assigned, m)
			}
		}
		for i := 0; i < len(assigned); i++ {
			for j := i + 1; j < len(assigned); j++ {
				if !assigned[i].Overlaps(assigned[j]) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					Type:       TypeDoubleBooking,
					Severity:   SeverityCritical,
					EntityID:   d.ID,
					EntityName: d.Model,
					MissionID:  assigned[i].ID + " & " + assigned[j].ID,
					Description: fmt.Sprintf(
						"Drone %s (%s) is assigned to overlapping missions %s and %s",
						d.Model, d.ID, assigned[i].ID, assigned[j].ID,
					),
				})
			}
		}
	}
	return conflicts
}

// skillMismatches reports assigned pilots lacking required skills or
// certifications, naming the missing items.
func skillMismatches(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, m := range snap.Missions {
		if m.AssignedPilot == "" {
			continue
		}
		p, ok := snap.PilotByID(m.AssignedPilot)
		if !ok {
			continue
		}
		if missing := scoring.Missing(m.RequiredSkills, p.Skills); len(missing) > 0 {
			conflicts = append(conflicts, Conflict{
				Type:       TypeSkillMismatch,
				Severity:   SeverityCritical,
				EntityID:   p.ID,
				EntityName: p.Name,
				MissionID:  m.ID,
				Description: fmt.Sprintf("Pilot %s is missing required skills: %s for %s",
					p.Name, strings.Join(missing, ", "), m.ID),
			})
		}
		if missing := scoring.Missing(m.RequiredCerts, p.Certifications); len(missing) > 0 {
			conflicts = append(conflicts, Conflict{
				Type:       TypeSkillMismatch,
				Severity:   SeverityCritical,
				EntityID:   p.ID,
				EntityName: p.Name,
				MissionID:  m.ID,
				Description: fmt.Sprintf("Pilot %s is missing required certifications: %s for %s",
					p.Name, strings.Join(missing, ", "), m.ID),
			})
		}
	}
	return conflicts
}

// maintenanceConflicts reports assigned drones that are in maintenance or
// whose maintenance falls due on or before the mission end date. The due
// date cutoff is a hard boundary.
func maintenanceConflicts(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, m := range snap.Missions {
		if m.AssignedDrone == "" {
			continue
		}
		d, ok := snap.DroneByID(m.AssignedDrone)
		if !ok {
			continue
		}
		if d.Status == model.DroneMaintenance {
			conflicts = append(conflicts, Conflict{
				Type:       TypeMaintenance,
				Severity:   SeverityCritical,
				EntityID:   d.ID,
				EntityName: d.Model,
				MissionID:  m.ID,
				Description: fmt.Sprintf("Drone %s (%s) is currently in maintenance and cannot fly %s",
					d.Model, d.ID, m.ID),
			})
			continue
		}
		if d.MaintenanceDue.IsZero() || m.EndDate.IsZero() {
			continue
		}
		if !d.MaintenanceDue.After(m.EndDate) {
			conflicts = append(conflicts, Conflict{
				Type:       TypeMaintenance,
				Severity:   SeverityWarning,
				EntityID:   d.ID,
				EntityName: d.Model,
				MissionID:  m.ID,
				Description: fmt.Sprintf("Drone %s (%s) has maintenance due on %s but mission %s ends on %s",
					d.Model, d.ID, d.MaintenanceDue.Format(dateLayout), m.ID, m.EndDate.Format(dateLayout)),
			})
		}
	}
	return conflicts
}

// locationMismatches reports assigned pilots and drones based in a
// different location than the mission. One conflict per mismatched
// resource, pilot first.
func locationMismatches(snap model.Snapshot) []Conflict {
	var conflicts []Conflict
	for _, m := range snap.Missions {
		if m.Location == "" {
			continue
		}
		if m.AssignedPilot != "" {
			if p, ok := snap.PilotByID(m.AssignedPilot); ok && p.Location != "" {
				if scoring.LocationMatch(p.Location, m.Location) == 0 {
					conflicts = append(conflicts, Conflict{
						Type:       TypeLocationMismatch,
						Severity:   SeverityWarning,
						EntityID:   p.ID,
						EntityName: p.Name,
						MissionID:  m.ID,
						Description: fmt.Sprintf("Pilot %s is in %s but mission %s is in %s",
							p.Name, p.Location, m.ID, m.Location),
					})
				}
			}
		}
		if m.AssignedDrone != "" {
			if d, ok := snap.DroneByID(m.AssignedDrone); ok && d.Location != "" {
				if scoring.LocationMatch(d.Location, m.Location) == 0 {
					conflicts = append(conflicts, Conflict{
						Type:       TypeLocationMismatch,
						Severity:   SeverityWarning,
						EntityID:   d.ID,
						EntityName: d.Model,
						MissionID:  m.ID,
						Description: fmt.Sprintf("Drone %s (%s) is in %s but mission %s is in %s",
							d.Model, d.ID, d.Location, m.ID, m.Location),
					})
				}
			}
		}
	}
	return conflicts
}
