package model

import "fmt"

// PilotStatus is the roster state of a pilot. The values are stable strings
// shared with the backing store.
type PilotStatus string

const (
	PilotAvailable PilotStatus = "Available"
	PilotAssigned  PilotStatus = "Assigned"
	PilotOnLeave   PilotStatus = "On Leave"
)

// Valid reports whether the status is one of the known roster states.
func (s PilotStatus) Valid() bool {
	switch s {
	case PilotAvailable, PilotAssigned, PilotOnLeave:
		return true
	}
	return false
}

// Pilot represents a drone pilot on the roster.
type Pilot struct {
	ID                string
	Name              string
	Skills            []string
	Certifications    []string
	Location          string
	Status            PilotStatus
	CurrentAssignment string
}

// Validate checks that the record carries the fields every engine relies on.
func (p Pilot) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pilot: missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("pilot %s: missing name", p.ID)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("pilot %s: unknown status %q", p.ID, p.Status)
	}
	return nil
}

// Available reports whether the pilot can be assigned without displacement.
func (p Pilot) Available() bool {
	return p.Status == PilotAvailable
}
