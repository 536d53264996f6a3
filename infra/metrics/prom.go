package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skylarkops/dronecoord/core/conflict"
	"github.com/skylarkops/dronecoord/core/reassign"
)

// PromSink records coordinator activity in Prometheus metrics.
type PromSink struct {
	scans     prometheus.Counter
	conflicts *prometheus.CounterVec
	matches   *prometheus.CounterVec
	plans     *prometheus.CounterVec
}

// NewPromSink registers the coordinator metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already registered
// collectors are reused so repeated construction is safe.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	scans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_scans_total",
		Help: "Total number of conflict scans",
	})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflicts_detected_total",
		Help: "Total number of conflicts detected",
	}, []string{"type", "severity"})
	matches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_requests_total",
		Help: "Total number of match requests",
	}, []string{"kind"})
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reassign_plans_total",
		Help: "Total number of reassignment plans proposed",
	}, []string{"phase"})

	s := &PromSink{scans: scans, conflicts: conflicts, matches: matches, plans: plans}
	for _, c := range []prometheus.Collector{scans, conflicts, matches, plans} {
		if err := register(reg, c, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, s *PromSink) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch existing := are.ExistingCollector.(type) {
	case prometheus.Counter:
		if c == s.scans {
			s.scans = existing
		}
	case *prometheus.CounterVec:
		switch c {
		case s.conflicts:
			s.conflicts = existing
		case s.matches:
			s.matches = existing
		case s.plans:
			s.plans = existing
		}
	}
	return nil
}

// RecordConflictScan increments the scan counter and one conflict counter
// per finding.
func (s *PromSink) RecordConflictScan(conflicts []conflict.Conflict) error {
	s.scans.Inc()
	for _, c := range conflicts {
		s.conflicts.WithLabelValues(string(c.Type), string(c.Severity)).Inc()
	}
	return nil
}

// RecordMatch increments the match request counter.
func (s *PromSink) RecordMatch(kind string, candidates int) error {
	s.matches.WithLabelValues(kind).Inc()
	return nil
}

// RecordPlans increments the plan counter per proposal, labelled by phase.
func (s *PromSink) RecordPlans(plans []reassign.SwapPlan) error {
	for _, p := range plans {
		s.plans.WithLabelValues(strconv.Itoa(p.Phase)).Inc()
	}
	return nil
}
