package model

import "fmt"

// Snapshot is the in-memory view of the roster, fleet and mission list at
// the start of one operation. Engines read it and never mutate it; callers
// own the read-modify-write cycle against the backing store.
type Snapshot struct {
	Pilots   []Pilot
	Drones   []Drone
	Missions []Mission
}

// PilotByID returns the pilot with the given id.
func (s Snapshot) PilotByID(id string) (Pilot, bool) {
	for _, p := range s.Pilots {
		if p.ID == id {
			return p, true
		}
	}
	return Pilot{}, false
}

// DroneByID returns the drone with the given id.
func (s Snapshot) DroneByID(id string) (Drone, bool) {
	for _, d := range s.Drones {
		if d.ID == id {
			return d, true
		}
	}
	return Drone{}, false
}

// MissionByID returns the mission with the given id.
func (s Snapshot) MissionByID(id string) (Mission, bool) {
	for _, m := range s.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}

// Validate checks every record and verifies that mission assignments
// reference known pilots and drones. It fails on the first bad record so
// malformed input surfaces immediately instead of skewing scores downstream.
func (s Snapshot) Validate() error {
	for _, p := range s.Pilots {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, d := range s.Drones {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	for _, m := range s.Missions {
		if err := m.Validate(); err != nil {
			return err
		}
		if m.AssignedPilot != "" {
			if _, ok := s.PilotByID(m.AssignedPilot); !ok {
				return fmt.Errorf("mission %s: assigned pilot %s not in roster", m.ID, m.AssignedPilot)
			}
		}
		if m.AssignedDrone != "" {
			if _, ok := s.DroneByID(m.AssignedDrone); !ok {
				return fmt.Errorf("mission %s: assigned drone %s not in fleet", m.ID, m.AssignedDrone)
			}
		}
	}
	return nil
}
