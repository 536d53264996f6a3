package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skylarkops/dronecoord/config"
	"github.com/skylarkops/dronecoord/core/conflict"
	"github.com/skylarkops/dronecoord/core/decision"
	"github.com/skylarkops/dronecoord/core/matching"
	"github.com/skylarkops/dronecoord/core/model"
	"github.com/skylarkops/dronecoord/core/reassign"
	"github.com/skylarkops/dronecoord/infra/store"
)

const pilotsCSV = `pilot_id,name,skills,certifications,location,status,current_assignment
PIL001,Dana Reyes,"Thermal Imaging, Mapping",Part 107,Denver,Available,–
PIL002,Miguel Torres,Mapping,Part 107,Austin,Assigned,PRJ002
`

const dronesCSV = `drone_id,model,capabilities,status,location,current_assignment,maintenance_due
DRN001,Matrice 350,"Thermal Imaging, Mapping",Available,Denver,–,2027-01-15
`

const missionsCSV = `project_id,client,location,required_skills,required_certs,start_date,end_date,priority,assigned_pilot,assigned_drone
PRJ001,Acme Rail,Denver,Thermal Imaging,Part 107,2026-10-01,2026-10-05,Urgent,–,–
PRJ002,Metro Survey,Austin,Mapping,Part 107,2026-10-03,2026-10-08,Standard,PIL002,–
PRJ003,Hill Farms,Austin,Mapping,Part 107,2026-10-04,2026-10-09,Standard,PIL002,–
`

func newTestService(t *testing.T) (*Service, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Store: config.StoreConfig{
			PilotsPath:   filepath.Join(dir, "pilots.csv"),
			DronesPath:   filepath.Join(dir, "drones.csv"),
			MissionsPath: filepath.Join(dir, "missions.csv"),
		},
		Decision: config.DecisionConfig{
			Backend: "jsonl",
			Path:    filepath.Join(dir, "decisions.jsonl"),
		},
		Matching: config.MatchingConfig{
			PilotWeights: matching.DefaultPilotWeights(),
			DroneWeights: matching.DefaultDroneWeights(),
		},
		Reassign: reassign.DefaultConfig(),
	}
	require.NoError(t, os.WriteFile(cfg.Store.PilotsPath, []byte(pilotsCSV), 0o644))
	require.NoError(t, os.WriteFile(cfg.Store.DronesPath, []byte(dronesCSV), 0o644))
	require.NoError(t, os.WriteFile(cfg.Store.MissionsPath, []byte(missionsCSV), 0o644))

	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, cfg
}

func TestServiceMatchPilots(t *testing.T) {
	svc, _ := newTestService(t)

	ranked, err := svc.MatchPilots("PRJ001")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, "PIL001", ranked[0].Pilot.ID)
	require.Greater(t, ranked[0].Score, ranked[1].Score)

	recs, err := svc.Decisions(context.Background(), decision.Query{Kind: decision.KindMatch})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "PRJ001", recs[0].MissionID)
}

func TestServiceMatchUnknownMission(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.MatchPilots("PRJ999")
	require.ErrorIs(t, err, reassign.ErrMissionNotFound)
	_, err = svc.MatchDrones("PRJ999")
	require.ErrorIs(t, err, reassign.ErrMissionNotFound)
}

func TestServiceDetectConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	conflicts, err := svc.DetectConflicts()
	require.NoError(t, err)

	found := false
	for _, c := range conflicts {
		if c.Type == conflict.TypeDoubleBooking && c.EntityID == "PIL002" {
			found = true
		}
	}
	require.True(t, found, "expected a double booking for PIL002, got %+v", conflicts)
}

func TestServiceApplyBestPlan(t *testing.T) {
	svc, cfg := newTestService(t)

	plan, changes, err := svc.ApplyBestPlan("PRJ001")
	require.NoError(t, err)
	require.Equal(t, 1, plan.Phase)
	require.NotNil(t, plan.Pilot)
	require.Equal(t, "PIL001", plan.Pilot.ID)
	require.NotEmpty(t, changes)

	// The mutation must have been persisted.
	snap, err := store.NewCSVStore(cfg.Store.PilotsPath, cfg.Store.DronesPath, cfg.Store.MissionsPath).Load()
	require.NoError(t, err)
	mission, ok := snap.MissionByID("PRJ001")
	require.True(t, ok)
	require.Equal(t, "PIL001", mission.AssignedPilot)
	require.Equal(t, "DRN001", mission.AssignedDrone)
	pilot, ok := snap.PilotByID("PIL001")
	require.True(t, ok)
	require.Equal(t, model.PilotAssigned, pilot.Status)
	require.Equal(t, "PRJ001", pilot.CurrentAssignment)

	recs, err := svc.Decisions(context.Background(), decision.Query{Kind: decision.KindReassignApply})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestServiceSetPilotStatus(t *testing.T) {
	svc, cfg := newTestService(t)

	require.NoError(t, svc.SetPilotStatus("PIL002", model.PilotOnLeave))

	snap, err := store.NewCSVStore(cfg.Store.PilotsPath, cfg.Store.DronesPath, cfg.Store.MissionsPath).Load()
	require.NoError(t, err)
	pilot, ok := snap.PilotByID("PIL002")
	require.True(t, ok)
	require.Equal(t, model.PilotOnLeave, pilot.Status)
	require.Empty(t, pilot.CurrentAssignment)

	err = svc.SetPilotStatus("PIL999", model.PilotAvailable)
	require.True(t, errors.Is(err, ErrPilotNotFound))

	err = svc.SetPilotStatus("PIL001", model.PilotStatus("Retired"))
	require.Error(t, err)
}

func TestServiceAssignBest(t *testing.T) {
	svc, cfg := newTestService(t)

	changes, err := svc.AssignBest("PRJ001")
	require.NoError(t, err)
	require.NotEmpty(t, changes)

	snap, err := store.NewCSVStore(cfg.Store.PilotsPath, cfg.Store.DronesPath, cfg.Store.MissionsPath).Load()
	require.NoError(t, err)
	mission, ok := snap.MissionByID("PRJ001")
	require.True(t, ok)
	require.Equal(t, "PIL001", mission.AssignedPilot)
	require.Equal(t, "DRN001", mission.AssignedDrone)
}
