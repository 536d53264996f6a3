package metrics

import (
	"github.com/skylarkops/dronecoord/core/conflict"
	"github.com/skylarkops/dronecoord/core/reassign"
)

// Sink records coordinator activity for observability purposes.
type Sink interface {
	// RecordConflictScan records one full conflict scan and its findings.
	RecordConflictScan(conflicts []conflict.Conflict) error
	// RecordMatch records one match request. kind is "pilot" or "drone".
	RecordMatch(kind string, candidates int) error
	// RecordPlans records the proposals of one reassignment call.
	RecordPlans(plans []reassign.SwapPlan) error
}

// NopSink discards all metrics.
type NopSink struct{}

func (NopSink) RecordConflictScan([]conflict.Conflict) error { return nil }
func (NopSink) RecordMatch(string, int) error                { return nil }
func (NopSink) RecordPlans([]reassign.SwapPlan) error        { return nil }
