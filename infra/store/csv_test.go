package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylarkops/dronecoord/core/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testStore(t *testing.T) *CSVStore {
	t.Helper()
	dir := t.TempDir()
	pilots := writeFile(t, dir, "pilot_roster.csv",
		"pilot_id,name,skills,certifications,location,status,current_assignment\n"+
			"P001,Arjun,\"Mapping, Thermal\",DGCA,Bangalore,Assigned,PRJ001\n"+
			"P002,Meera,Survey,,Mumbai,Available,–\n")
	drones := writeFile(t, dir, "drone_fleet.csv",
		"drone_id,model,capabilities,status,location,current_assignment,maintenance_due\n"+
			"D001,Matrice 300,\"Mapping, Thermal\",Assigned,Bangalore,PRJ001,2026-06-01\n"+
			"D002,Mavic 3,Survey,Available,Mumbai,–,\n")
	missions := writeFile(t, dir, "missions.csv",
		"project_id,client,location,required_skills,required_certs,start_date,end_date,priority,assigned_pilot,assigned_drone\n"+
			"PRJ001,AgriCo,Bangalore,\"Mapping, Thermal\",DGCA,2026-04-01,2026-04-10,Standard,P001,D001\n"+
			"PRJ002,InfraCo,Mumbai,Survey,,2026-04-05,2026-04-12,Urgent,–,–\n")
	return NewCSVStore(pilots, drones, missions)
}

func TestCSVStoreLoad(t *testing.T) {
	snap, err := testStore(t).Load()
	require.NoError(t, err)

	require.Len(t, snap.Pilots, 2)
	p := snap.Pilots[0]
	assert.Equal(t, "P001", p.ID)
	assert.Equal(t, []string{"Mapping", "Thermal"}, p.Skills)
	assert.Equal(t, model.PilotAssigned, p.Status)
	assert.Equal(t, "PRJ001", p.CurrentAssignment)
	assert.Empty(t, snap.Pilots[1].CurrentAssignment)

	require.Len(t, snap.Drones, 2)
	d := snap.Drones[0]
	assert.Equal(t, "Matrice 300", d.Model)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d.MaintenanceDue)
	assert.True(t, snap.Drones[1].MaintenanceDue.IsZero())

	require.Len(t, snap.Missions, 2)
	m := snap.Missions[0]
	assert.Equal(t, model.PriorityStandard, m.Priority)
	assert.Equal(t, "P001", m.AssignedPilot)
	assert.Empty(t, snap.Missions[1].AssignedPilot)

	require.NoError(t, snap.Validate())
}

func TestCSVStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	snap, err := s.Load()
	require.NoError(t, err)

	snap.Pilots[1].Status = model.PilotOnLeave
	snap.Missions[1].AssignedPilot = "P002"
	require.NoError(t, s.Save(snap))

	reloaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, reloaded)
}

func TestCSVStoreRejectsBadDate(t *testing.T) {
	s := testStore(t)
	dir := t.TempDir()
	s.MissionsPath = writeFile(t, dir, "missions.csv",
		"project_id,client,location,required_skills,required_certs,start_date,end_date,priority,assigned_pilot,assigned_drone\n"+
			"PRJ001,AgriCo,Bangalore,,,"+"04/01/2026,2026-04-10,Standard,–,–\n")
	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestCSVStoreRejectsMissingColumn(t *testing.T) {
	s := testStore(t)
	dir := t.TempDir()
	s.PilotsPath = writeFile(t, dir, "pilot_roster.csv", "pilot_id,name\nP001,Arjun\n")
	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestCSVStoreRejectsUnknownStatus(t *testing.T) {
	s := testStore(t)
	dir := t.TempDir()
	s.PilotsPath = writeFile(t, dir, "pilot_roster.csv",
		"pilot_id,name,skills,certifications,location,status,current_assignment\n"+
			"P001,Arjun,,,Bangalore,Retired,–\n")
	_, err := s.Load()
	require.Error(t, err)
}
