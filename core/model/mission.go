package model

import (
	"fmt"
	"time"
)

// Priority classifies how urgent a mission is. The values are stable strings
// shared with the backing store.
type Priority string

const (
	PriorityUrgent   Priority = "Urgent"
	PriorityHigh     Priority = "High"
	PriorityStandard Priority = "Standard"
	PriorityLow      Priority = "Low"
)

// Rank returns the urgency rank of the priority, 1 being the most urgent.
// Unknown priorities rank as Standard.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityLow:
		return 4
	default:
		return 3
	}
}

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityStandard, PriorityLow:
		return true
	}
	return false
}

// Mission represents a survey mission for a client.
type Mission struct {
	ID             string
	Client         string
	Location       string
	RequiredSkills []string
	RequiredCerts  []string
	StartDate      time.Time
	EndDate        time.Time
	Priority       Priority
	AssignedPilot  string
	AssignedDrone  string
}

// Validate checks that the record carries the fields every engine relies on.
func (m Mission) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("mission: missing id")
	}
	if !m.Priority.Valid() {
		return fmt.Errorf("mission %s: unknown priority %q", m.ID, m.Priority)
	}
	if !m.StartDate.IsZero() && !m.EndDate.IsZero() && m.EndDate.Before(m.StartDate) {
		return fmt.Errorf("mission %s: end date before start date", m.ID)
	}
	return nil
}

// Overlaps reports whether the two missions' [start, end) intervals
// intersect. Missions with missing dates never overlap.
func (m Mission) Overlaps(other Mission) bool {
	if m.StartDate.IsZero() || m.EndDate.IsZero() || other.StartDate.IsZero() || other.EndDate.IsZero() {
		return false
	}
	return m.StartDate.Before(other.EndDate) && other.StartDate.Before(m.EndDate)
}
