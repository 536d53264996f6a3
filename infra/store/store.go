// Package store loads and saves the roster, fleet and mission list. The
// engines never touch it; callers load a snapshot, run the engines, and
// hand any mutation back here.
package store

import "github.com/skylarkops/dronecoord/core/model"

// RosterStore is the snapshot source and sink the coordinator works
// against.
type RosterStore interface {
	Load() (model.Snapshot, error)
	Save(model.Snapshot) error
}
