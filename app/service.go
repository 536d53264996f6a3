// Package app wires the engines, the roster store and the decision log
// into one coordinator service. Every operation follows the same cycle:
// load a fresh snapshot, run the engines over it, hand mutations back to
// the store. A mutex serialises the cycle; the design assumes a single
// active operator and offers no consistency guarantee beyond that.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skylarkops/dronecoord/api/ops"
	"github.com/skylarkops/dronecoord/config"
	"github.com/skylarkops/dronecoord/core/conflict"
	"github.com/skylarkops/dronecoord/core/decision"
	"github.com/skylarkops/dronecoord/core/matching"
	coremetrics "github.com/skylarkops/dronecoord/core/metrics"
	"github.com/skylarkops/dronecoord/core/model"
	"github.com/skylarkops/dronecoord/core/reassign"
	"github.com/skylarkops/dronecoord/infra/logger"
	"github.com/skylarkops/dronecoord/infra/metrics"
	"github.com/skylarkops/dronecoord/infra/store"
	"github.com/skylarkops/dronecoord/internal/eventbus"
)

// ErrPilotNotFound is returned when a status change names an unknown pilot.
var ErrPilotNotFound = errors.New("pilot not found")

// Service is the operations coordinator.
type Service struct {
	mu sync.Mutex

	store     store.RosterStore
	decisions decision.Store
	bus       *eventbus.Bus[decision.Record]
	match     matching.Engine
	planner   reassign.Engine
	sink      coremetrics.Sink
	log       logger.Logger

	apiAddr     string
	apiToken    string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	roster := store.NewCSVStore(cfg.Store.PilotsPath, cfg.Store.DronesPath, cfg.Store.MissionsPath)

	var decisions decision.Store
	var err error
	switch cfg.Decision.Backend {
	case "sqlite":
		decisions, err = decision.NewSQLiteStore(cfg.Decision.Path)
	default:
		decisions, err = decision.NewJSONLStore(cfg.Decision.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("decision store: %w", err)
	}

	var sink coremetrics.Sink = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		promSink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sink = promSink
	}

	match := matching.Engine{PilotWeights: cfg.Matching.PilotWeights, DroneWeights: cfg.Matching.DroneWeights}
	planner := reassign.New(match, cfg.Reassign, logger.New("reassign"))

	return &Service{
		store:       roster,
		decisions:   decisions,
		bus:         eventbus.New[decision.Record](),
		match:       match,
		planner:     planner,
		sink:        sink,
		log:         logg,
		apiAddr:     cfg.API.Addr,
		apiToken:    cfg.API.Token,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// MatchPilots loads a snapshot and ranks every pilot for the mission.
func (s *Service) MatchPilots(missionID string) ([]matching.PilotMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, mission, err := s.loadMission(missionID)
	if err != nil {
		return nil, err
	}
	ranked, err := s.match.MatchPilots(mission, snap.Pilots)
	if err != nil {
		return nil, err
	}
	_ = s.sink.RecordMatch("pilot", len(ranked))
	s.record(decision.Record{
		Kind:      decision.KindMatch,
		MissionID: missionID,
		Summary:   fmt.Sprintf("ranked %d pilots for %s", len(ranked), missionID),
	})
	return ranked, nil
}

// MatchDrones loads a snapshot and ranks every drone for the mission.
func (s *Service) MatchDrones(missionID string) ([]matching.DroneMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, mission, err := s.loadMission(missionID)
	if err != nil {
		return nil, err
	}
	ranked, err := s.match.MatchDrones(mission, snap.Drones)
	if err != nil {
		return nil, err
	}
	_ = s.sink.RecordMatch("drone", len(ranked))
	s.record(decision.Record{
		Kind:      decision.KindMatch,
		MissionID: missionID,
		Summary:   fmt.Sprintf("ranked %d drones for %s", len(ranked), missionID),
	})
	return ranked, nil
}

// DetectConflicts loads a snapshot and scans it.
func (s *Service) DetectConflicts() ([]conflict.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	conflicts := conflict.Detect(snap)
	_ = s.sink.RecordConflictScan(conflicts)
	s.record(decision.Record{
		Kind:    decision.KindConflictScan,
		Summary: fmt.Sprintf("detected %d conflicts", len(conflicts)),
	})
	return conflicts, nil
}

// PlanReassignment loads a snapshot and proposes swap plans for the
// mission, lowest risk first.
func (s *Service) PlanReassignment(missionID string) ([]reassign.SwapPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	plans, err := s.planner.Plan(missionID, snap)
	if err != nil {
		return nil, err
	}
	_ = s.sink.RecordPlans(plans)
	s.record(decision.Record{
		Kind:      decision.KindReassignPlan,
		MissionID: missionID,
		Summary:   fmt.Sprintf("proposed %d reassignment plans for %s", len(plans), missionID),
	})
	return plans, nil
}

// ApplyBestPlan plans a reassignment and applies the lowest-risk proposal,
// persisting the mutated snapshot. It returns the applied plan and the
// change summary.
func (s *Service) ApplyBestPlan(missionID string) (reassign.SwapPlan, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load()
	if err != nil {
		return reassign.SwapPlan{}, nil, err
	}
	plans, err := s.planner.Plan(missionID, snap)
	if err != nil {
		return reassign.SwapPlan{}, nil, err
	}
	if len(plans) == 0 {
		return reassign.SwapPlan{}, nil, fmt.Errorf("no viable reassignment plan for %s", missionID)
	}
	best := plans[0]
	changes, err := reassign.Apply(best, &snap)
	if err != nil {
		return reassign.SwapPlan{}, nil, err
	}
	if err := s.store.Save(snap); err != nil {
		return reassign.SwapPlan{}, nil, err
	}
	s.record(decision.Record{
		Kind:      decision.KindReassignApply,
		MissionID: missionID,
		Summary:   fmt.Sprintf("applied plan %s (risk %d) to %s", best.ID, best.RiskScore, missionID),
		Details:   map[string]any{"changes": changes},
	})
	return best, changes, nil
}

// AssignBest assigns the best-scoring available pilot and drone to the
// mission and persists the result.
func (s *Service) AssignBest(missionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, mission, err := s.loadMission(missionID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if mission.AssignedPilot == "" {
		var pool []model.Pilot
		for _, p := range snap.Pilots {
			if p.Available() {
				pool = append(pool, p)
			}
		}
		ranked, err := s.match.MatchPilots(mission, pool)
		if err != nil {
			return nil, err
		}
		if len(ranked) > 0 && ranked[0].Score > 0 {
			pilot := ranked[0].Pilot
			plan := reassign.SwapPlan{MissionID: missionID, Pilot: &pilot, PilotScore: ranked[0].Score}
			ch, err := reassign.Apply(plan, &snap)
			if err != nil {
				return nil, err
			}
			changes = append(changes, ch...)
		}
	}
	if mission.AssignedDrone == "" {
		var pool []model.Drone
		for _, d := range snap.Drones {
			if d.Available() {
				pool = append(pool, d)
			}
		}
		ranked, err := s.match.MatchDrones(mission, pool)
		if err != nil {
			return nil, err
		}
		if len(ranked) > 0 && ranked[0].Score > 0 {
			drone := ranked[0].Drone
			plan := reassign.SwapPlan{MissionID: missionID, Drone: &drone, DroneScore: ranked[0].Score}
			ch, err := reassign.Apply(plan, &snap)
			if err != nil {
				return nil, err
			}
			changes = append(changes, ch...)
		}
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("no available candidate matches %s", missionID)
	}
	if err := s.store.Save(snap); err != nil {
		return nil, err
	}
	s.record(decision.Record{
		Kind:      decision.KindReassignApply,
		MissionID: missionID,
		Summary:   fmt.Sprintf("assigned best candidates to %s", missionID),
		Details:   map[string]any{"changes": changes},
	})
	return changes, nil
}

// SetPilotStatus changes a pilot's roster status and persists it.
func (s *Service) SetPilotStatus(pilotID string, status model.PilotStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.store.Load()
	if err != nil {
		return err
	}
	found := false
	for i := range snap.Pilots {
		if snap.Pilots[i].ID == pilotID {
			snap.Pilots[i].Status = status
			if status != model.PilotAssigned {
				snap.Pilots[i].CurrentAssignment = ""
			}
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrPilotNotFound, pilotID)
	}
	if err := s.store.Save(snap); err != nil {
		return err
	}
	s.record(decision.Record{
		Kind:    decision.KindStatusChange,
		Summary: fmt.Sprintf("pilot %s marked %s", pilotID, status),
	})
	return nil
}

// Decisions queries the decision log.
func (s *Service) Decisions(ctx context.Context, q decision.Query) ([]decision.Record, error) {
	return s.decisions.Query(ctx, q)
}

// record stamps a decision record, appends it to the log and publishes it
// on the bus for any live observers.
func (s *Service) record(rec decision.Record) {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now().UTC()
	if err := s.decisions.Append(context.Background(), rec); err != nil {
		s.log.Errorf("decision log append: %v", err)
	}
	s.bus.Publish(rec)
}

// Watch returns a live feed of decision records. The channel closes when
// the service shuts down.
func (s *Service) Watch() <-chan decision.Record {
	return s.bus.Subscribe()
}

func (s *Service) loadMission(missionID string) (model.Snapshot, model.Mission, error) {
	snap, err := s.store.Load()
	if err != nil {
		return model.Snapshot{}, model.Mission{}, err
	}
	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return model.Snapshot{}, model.Mission{}, fmt.Errorf("%w: %s", reassign.ErrMissionNotFound, missionID)
	}
	return snap, mission, nil
}

// Run serves the HTTP API and, when enabled, the Prometheus endpoint,
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	// Mirror every decision onto the service log while serving.
	go func() {
		for rec := range s.Watch() {
			s.log.Infof("decision %s: %s", rec.Kind, rec.Summary)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/match", ops.NewMatchHandler(s))
	mux.Handle("/api/conflicts", ops.NewConflictsHandler(s))
	mux.Handle("/api/reassign", ops.NewReassignHandler(s))
	mux.Handle("/api/decisions", ops.NewDecisionsHandler(s.decisions, s.apiToken))

	srv := &http.Server{Addr: s.apiAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.decisions.Close()
}
