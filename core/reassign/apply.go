package reassign

import (
	"fmt"

	"github.com/skylarkops/dronecoord/core/model"
)

// Apply executes a chosen plan against the snapshot: the displaced mission
// loses its resource, the target mission gains it, and resource statuses
// flip to Assigned. The caller persists the mutated snapshot. Returns a
// change summary, one line per mutation.
func Apply(plan SwapPlan, snap *model.Snapshot) ([]string, error) {
	var changes []string

	target := -1
	for i := range snap.Missions {
		if snap.Missions[i].ID == plan.MissionID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, plan.MissionID)
	}

	if plan.Pilot != nil {
		if plan.DisplacedMissionID != "" {
			for i := range snap.Missions {
				if snap.Missions[i].ID == plan.DisplacedMissionID && snap.Missions[i].AssignedPilot == plan.Pilot.ID {
					snap.Missions[i].AssignedPilot = ""
					changes = append(changes, fmt.Sprintf("Removed pilot %s from %s", plan.Pilot.Name, plan.DisplacedMissionID))
				}
			}
		}
		found := false
		for i := range snap.Pilots {
			if snap.Pilots[i].ID == plan.Pilot.ID {
				snap.Pilots[i].Status = model.PilotAssigned
				snap.Pilots[i].CurrentAssignment = plan.MissionID
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("pilot %s not in roster", plan.Pilot.ID)
		}
		snap.Missions[target].AssignedPilot = plan.Pilot.ID
		changes = append(changes, fmt.Sprintf("Assigned pilot %s (%s) to %s", plan.Pilot.Name, plan.Pilot.ID, plan.MissionID))
	}

	if plan.Drone != nil {
		if plan.DisplacedMissionID != "" {
			for i := range snap.Missions {
				if snap.Missions[i].ID == plan.DisplacedMissionID && snap.Missions[i].AssignedDrone == plan.Drone.ID {
					snap.Missions[i].AssignedDrone = ""
					changes = append(changes, fmt.Sprintf("Removed drone %s from %s", plan.Drone.Model, plan.DisplacedMissionID))
				}
			}
		}
		found := false
		for i := range snap.Drones {
			if snap.Drones[i].ID == plan.Drone.ID {
				snap.Drones[i].Status = model.DroneAssigned
				snap.Drones[i].CurrentAssignment = plan.MissionID
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("drone %s not in fleet", plan.Drone.ID)
		}
		snap.Missions[target].AssignedDrone = plan.Drone.ID
		changes = append(changes, fmt.Sprintf("Assigned drone %s (%s) to %s", plan.Drone.Model, plan.Drone.ID, plan.MissionID))
	}

	return changes, nil
}
