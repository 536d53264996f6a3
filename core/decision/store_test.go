package decision

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecords(now time.Time) []Record {
	return []Record{
		{ID: "r1", Timestamp: now.Add(-2 * time.Hour), Kind: KindConflictScan, Summary: "2 conflicts"},
		{ID: "r2", Timestamp: now.Add(-time.Hour), Kind: KindMatch, MissionID: "PRJ001", Summary: "ranked 4 pilots"},
		{ID: "r3", Timestamp: now, Kind: KindReassignPlan, MissionID: "PRJ002", Summary: "2 plans"},
	}
}

func runStoreTests(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	for _, rec := range sampleRecords(now) {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != "r1" || all[2].ID != "r3" {
		t.Fatalf("records out of order: %v", all)
	}

	byKind, err := store.Query(ctx, Query{Kind: KindMatch})
	if err != nil {
		t.Fatalf("query by kind: %v", err)
	}
	if len(byKind) != 1 || byKind[0].ID != "r2" {
		t.Fatalf("kind filter failed: %v", byKind)
	}

	byMission, err := store.Query(ctx, Query{MissionID: "PRJ002"})
	if err != nil {
		t.Fatalf("query by mission: %v", err)
	}
	if len(byMission) != 1 || byMission[0].ID != "r3" {
		t.Fatalf("mission filter failed: %v", byMission)
	}

	recent, err := store.Query(ctx, Query{Start: now.Add(-90 * time.Minute)})
	if err != nil {
		t.Fatalf("query by start: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("start filter failed: %v", recent)
	}
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "decisions.jsonl"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	runStoreTests(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	runStoreTests(t, store)
}
