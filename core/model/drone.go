package model

import (
	"fmt"
	"time"
)

// DroneStatus is the fleet state of a drone. The values are stable strings
// shared with the backing store.
type DroneStatus string

const (
	DroneAvailable   DroneStatus = "Available"
	DroneAssigned    DroneStatus = "Assigned"
	DroneMaintenance DroneStatus = "Maintenance"
)

// Valid reports whether the status is one of the known fleet states.
func (s DroneStatus) Valid() bool {
	switch s {
	case DroneAvailable, DroneAssigned, DroneMaintenance:
		return true
	}
	return false
}

// Drone represents a drone in the fleet.
type Drone struct {
	ID                string
	Model             string
	Capabilities      []string
	Status            DroneStatus
	Location          string
	CurrentAssignment string
	// MaintenanceDue is the date the next maintenance is due. A zero value
	// means no maintenance is scheduled.
	MaintenanceDue time.Time
}

// Validate checks that the record carries the fields every engine relies on.
func (d Drone) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("drone: missing id")
	}
	if d.Model == "" {
		return fmt.Errorf("drone %s: missing model", d.ID)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("drone %s: unknown status %q", d.ID, d.Status)
	}
	return nil
}

// Available reports whether the drone can be assigned without displacement.
func (d Drone) Available() bool {
	return d.Status == DroneAvailable
}
