package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skylarkops/dronecoord/core/model"
)

const dateLayout = "2006-01-02"

// emptyMark is written for blank assignment cells so the sheets the files
// are exported from stay readable.
const emptyMark = "–"

var pilotHeader = []string{"pilot_id", "name", "skills", "certifications", "location", "status", "current_assignment"}
var droneHeader = []string{"drone_id", "model", "capabilities", "status", "location", "current_assignment", "maintenance_due"}
var missionHeader = []string{"project_id", "client", "location", "required_skills", "required_certs", "start_date", "end_date", "priority", "assigned_pilot", "assigned_drone"}

// CSVStore reads and writes the roster as three CSV files.
type CSVStore struct {
	PilotsPath   string
	DronesPath   string
	MissionsPath string
}

// NewCSVStore returns a store over the given file paths.
func NewCSVStore(pilots, drones, missions string) *CSVStore {
	return &CSVStore{PilotsPath: pilots, DronesPath: drones, MissionsPath: missions}
}

// Load reads all three files and returns the snapshot. Malformed rows fail
// the load; silently defaulting would corrupt every score computed from
// them.
func (s *CSVStore) Load() (model.Snapshot, error) {
	var snap model.Snapshot

	rows, err := readRows(s.PilotsPath, pilotHeader)
	if err != nil {
		return snap, fmt.Errorf("load pilots: %w", err)
	}
	for i, row := range rows {
		p, err := pilotFromRow(row)
		if err != nil {
			return snap, fmt.Errorf("load pilots: row %d: %w", i+2, err)
		}
		snap.Pilots = append(snap.Pilots, p)
	}

	rows, err = readRows(s.DronesPath, droneHeader)
	if err != nil {
		return snap, fmt.Errorf("load drones: %w", err)
	}
	for i, row := range rows {
		d, err := droneFromRow(row)
		if err != nil {
			return snap, fmt.Errorf("load drones: row %d: %w", i+2, err)
		}
		snap.Drones = append(snap.Drones, d)
	}

	rows, err = readRows(s.MissionsPath, missionHeader)
	if err != nil {
		return snap, fmt.Errorf("load missions: %w", err)
	}
	for i, row := range rows {
		m, err := missionFromRow(row)
		if err != nil {
			return snap, fmt.Errorf("load missions: row %d: %w", i+2, err)
		}
		snap.Missions = append(snap.Missions, m)
	}

	return snap, nil
}

// Save writes the snapshot back to all three files.
func (s *CSVStore) Save(snap model.Snapshot) error {
	pilotRows := make([][]string, 0, len(snap.Pilots))
	for _, p := range snap.Pilots {
		pilotRows = append(pilotRows, pilotToRow(p))
	}
	if err := writeRows(s.PilotsPath, pilotHeader, pilotRows); err != nil {
		return fmt.Errorf("save pilots: %w", err)
	}

	droneRows := make([][]string, 0, len(snap.Drones))
	for _, d := range snap.Drones {
		droneRows = append(droneRows, droneToRow(d))
	}
	if err := writeRows(s.DronesPath, droneHeader, droneRows); err != nil {
		return fmt.Errorf("save drones: %w", err)
	}

	missionRows := make([][]string, 0, len(snap.Missions))
	for _, m := range snap.Missions {
		missionRows = append(missionRows, missionToRow(m))
	}
	if err := writeRows(s.MissionsPath, missionHeader, missionRows); err != nil {
		return fmt.Errorf("save missions: %w", err)
	}
	return nil
}

func readRows(path string, header []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	cols := records[0]
	for _, want := range header {
		found := false
		for _, c := range cols {
			if strings.TrimSpace(c) == want {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s: missing column %q", path, want)
		}
	}
	var rows []map[string]string
	for _, rec := range records[1:] {
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[strings.TrimSpace(c)] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeRows(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func pilotFromRow(row map[string]string) (model.Pilot, error) {
	p := model.Pilot{
		ID:                cell(row["pilot_id"]),
		Name:              cell(row["name"]),
		Skills:            parseList(row["skills"]),
		Certifications:    parseList(row["certifications"]),
		Location:          cell(row["location"]),
		Status:            model.PilotStatus(cell(row["status"])),
		CurrentAssignment: cell(row["current_assignment"]),
	}
	if p.Status == "" {
		p.Status = model.PilotAvailable
	}
	return p, p.Validate()
}

func pilotToRow(p model.Pilot) []string {
	return []string{
		p.ID,
		p.Name,
		strings.Join(p.Skills, ", "),
		strings.Join(p.Certifications, ", "),
		p.Location,
		string(p.Status),
		orMark(p.CurrentAssignment),
	}
}

func droneFromRow(row map[string]string) (model.Drone, error) {
	due, err := parseDate(row["maintenance_due"])
	if err != nil {
		return model.Drone{}, err
	}
	d := model.Drone{
		ID:                cell(row["drone_id"]),
		Model:             cell(row["model"]),
		Capabilities:      parseList(row["capabilities"]),
		Status:            model.DroneStatus(cell(row["status"])),
		Location:          cell(row["location"]),
		CurrentAssignment: cell(row["current_assignment"]),
		MaintenanceDue:    due,
	}
	if d.Status == "" {
		d.Status = model.DroneAvailable
	}
	return d, d.Validate()
}

func droneToRow(d model.Drone) []string {
	return []string{
		d.ID,
		d.Model,
		strings.Join(d.Capabilities, ", "),
		string(d.Status),
		d.Location,
		orMark(d.CurrentAssignment),
		formatDate(d.MaintenanceDue),
	}
}

func missionFromRow(row map[string]string) (model.Mission, error) {
	start, err := parseDate(row["start_date"])
	if err != nil {
		return model.Mission{}, err
	}
	end, err := parseDate(row["end_date"])
	if err != nil {
		return model.Mission{}, err
	}
	m := model.Mission{
		ID:             cell(row["project_id"]),
		Client:         cell(row["client"]),
		Location:       cell(row["location"]),
		RequiredSkills: parseList(row["required_skills"]),
		RequiredCerts:  parseList(row["required_certs"]),
		StartDate:      start,
		EndDate:        end,
		Priority:       model.Priority(cell(row["priority"])),
		AssignedPilot:  cell(row["assigned_pilot"]),
		AssignedDrone:  cell(row["assigned_drone"]),
	}
	if m.Priority == "" {
		m.Priority = model.PriorityStandard
	}
	return m, m.Validate()
}

func missionToRow(m model.Mission) []string {
	return []string{
		m.ID,
		m.Client,
		m.Location,
		strings.Join(m.RequiredSkills, ", "),
		strings.Join(m.RequiredCerts, ", "),
		formatDate(m.StartDate),
		formatDate(m.EndDate),
		string(m.Priority),
		orMark(m.AssignedPilot),
		orMark(m.AssignedDrone),
	}
}

// cell trims a raw value and maps the sheet's empty markers to "".
func cell(raw string) string {
	v := strings.TrimSpace(raw)
	switch v {
	case emptyMark, "-", "nan", "None":
		return ""
	}
	return v
}

func orMark(v string) string {
	if v == "" {
		return emptyMark
	}
	return v
}

func parseList(raw string) []string {
	if cell(raw) == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func parseDate(raw string) (time.Time, error) {
	v := cell(raw)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
