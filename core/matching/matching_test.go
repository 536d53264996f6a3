package matching

import (
	"math"
	"testing"
	"time"

	"github.com/skylarkops/dronecoord/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func surveyMission() model.Mission {
	return model.Mission{
		ID:             "PRJ001",
		Client:         "AgriCo",
		Location:       "Bangalore",
		RequiredSkills: []string{"Mapping", "Thermal"},
		RequiredCerts:  []string{"DGCA"},
		StartDate:      date(2026, 4, 1),
		EndDate:        date(2026, 4, 10),
		Priority:       model.PriorityStandard,
	}
}

func TestScorePilot(t *testing.T) {
	e := New()
	pilot := model.Pilot{
		ID:             "P001",
		Name:           "Arjun",
		Skills:         []string{"Mapping", "Thermal"},
		Certifications: []string{"DGCA"},
		Location:       "Bangalore",
		Status:         model.PilotAvailable,
	}
	score, breakdown, err := e.ScorePilot(surveyMission(), pilot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("perfect candidate should score 1.0, got %v", score)
	}
	for factor, v := range breakdown {
		if v != 1.0 {
			t.Errorf("factor %s: got %v want 1.0", factor, v)
		}
	}
}

func TestScorePilotPartial(t *testing.T) {
	e := New()
	pilot := model.Pilot{
		ID:       "P002",
		Name:     "Meera",
		Skills:   []string{"Mapping"},
		Location: "Mumbai",
		Status:   model.PilotOnLeave,
	}
	score, breakdown, err := e.ScorePilot(surveyMission(), pilot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.5*0.40 + 0.0*0.30 + 0.0*0.15 + 0.0*0.15
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("got %v want %v", score, want)
	}
	if breakdown["skill_match"] != 0.5 {
		t.Fatalf("skill_match: got %v want 0.5", breakdown["skill_match"])
	}
	if breakdown["availability"] != 0 {
		t.Fatalf("pilot on leave must have availability 0")
	}
}

func TestMatchPilotsOrderingAndTies(t *testing.T) {
	e := New()
	mission := surveyMission()
	mission.RequiredSkills = nil
	mission.RequiredCerts = nil
	pilots := []model.Pilot{
		{ID: "P003", Name: "Ravi", Location: "Bangalore", Status: model.PilotAvailable},
		{ID: "P001", Name: "Arjun", Location: "Bangalore", Status: model.PilotAvailable},
		{ID: "P002", Name: "Meera", Location: "Mumbai", Status: model.PilotAvailable},
	}
	matches, err := e.MatchPilots(mission, pilots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected all pilots ranked, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("ranking not sorted descending at %d", i)
		}
	}
	// P001 and P003 tie on score; the lower id must come first.
	if matches[0].Pilot.ID != "P001" || matches[1].Pilot.ID != "P003" {
		t.Fatalf("tie not broken by ascending id: %s, %s", matches[0].Pilot.ID, matches[1].Pilot.ID)
	}
}

func TestMatchPilotsIncludesUnavailable(t *testing.T) {
	e := New()
	pilots := []model.Pilot{
		{ID: "P001", Name: "Arjun", Skills: []string{"Mapping", "Thermal"}, Certifications: []string{"DGCA"}, Location: "Bangalore", Status: model.PilotAssigned},
	}
	matches, err := e.MatchPilots(surveyMission(), pilots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("assigned pilot must still be ranked")
	}
	if matches[0].Breakdown["availability"] != 0 {
		t.Fatalf("assigned pilot must score 0 availability")
	}
	if matches[0].Score <= 0 {
		t.Fatalf("assigned pilot with matching skills should still score above 0")
	}
}

func TestMatchPilotsRejectsBadRecord(t *testing.T) {
	e := New()
	pilots := []model.Pilot{{Name: "NoID", Status: model.PilotAvailable}}
	if _, err := e.MatchPilots(surveyMission(), pilots); err == nil {
		t.Fatalf("expected validation error for record without id")
	}
}

func TestScoreDroneMaintenanceBoundary(t *testing.T) {
	e := New()
	mission := surveyMission()
	drone := model.Drone{
		ID:           "D001",
		Model:        "Matrice 300",
		Capabilities: []string{"Mapping", "Thermal"},
		Location:     "Bangalore",
		Status:       model.DroneAvailable,
	}

	// Due the day after mission end: safe.
	drone.MaintenanceDue = date(2026, 4, 11)
	score, breakdown, err := e.ScoreDrone(mission, drone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown["maintenance_safe"] != 1 {
		t.Fatalf("due after end date must be safe")
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("got %v want 1.0", score)
	}

	// Due on the mission end date: not safe.
	drone.MaintenanceDue = date(2026, 4, 10)
	_, breakdown, err = e.ScoreDrone(mission, drone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown["maintenance_safe"] != 0 {
		t.Fatalf("due on end date must not be safe")
	}
}

func TestMatchDronesOrdering(t *testing.T) {
	e := New()
	mission := surveyMission()
	drones := []model.Drone{
		{ID: "D002", Model: "Mavic 3", Capabilities: []string{"Mapping"}, Location: "Mumbai", Status: model.DroneAvailable, MaintenanceDue: date(2026, 5, 1)},
		{ID: "D001", Model: "Matrice 300", Capabilities: []string{"Mapping", "Thermal"}, Location: "Bangalore", Status: model.DroneAvailable, MaintenanceDue: date(2026, 5, 1)},
	}
	matches, err := e.MatchDrones(mission, drones)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches[0].Drone.ID != "D001" {
		t.Fatalf("expected D001 first, got %s", matches[0].Drone.ID)
	}
}

func TestZeroWeightsSurface(t *testing.T) {
	e := Engine{} // all weights zero
	_, _, err := e.ScorePilot(surveyMission(), model.Pilot{ID: "P001", Name: "Arjun", Status: model.PilotAvailable})
	if err == nil {
		t.Fatalf("expected zero-weight configuration to fail")
	}
}
