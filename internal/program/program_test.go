package program

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"runcoach/internal/store"
)

func sampleProgram(week int) *store.WeeklyProgram {
	return &store.WeeklyProgram{
		WeekNumber: week,
		StartDate:  "2026-03-09",
		EndDate:    "2026-03-15",
		PlannedRuns: []store.PlannedRun{
			{Day: "Tuesday", Date: "2026-03-10", Category: store.CategoryRecoveryShort, DistanceKm: 5, PaceTarget: "6:15"},
			{Day: "Sunday", Date: "2026-03-15", Category: store.CategoryLongRun, DistanceKm: 14, PaceTarget: "6:00"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	if err := Save(dir, sampleProgram(12)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(dir, 12)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := sampleProgram(12)
	want.TotalKm = 19 // filled on save
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir(), 1); !errors.Is(err, ErrNoProgram) {
		t.Errorf("err = %v, want ErrNoProgram", err)
	}
}

func TestLoadLatest(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadLatest(dir); !errors.Is(err, ErrNoProgram) {
		t.Fatalf("err = %v, want ErrNoProgram", err)
	}

	for _, week := range []int{3, 12, 7} {
		if err := Save(dir, sampleProgram(week)); err != nil {
			t.Fatalf("save %d: %v", week, err)
		}
	}

	got, err := LoadLatest(dir)
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if got.WeekNumber != 12 {
		t.Errorf("week = %d, want 12", got.WeekNumber)
	}

	weeks, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(weeks) != 3 || weeks[0] != 3 || weeks[2] != 12 {
		t.Errorf("weeks = %v", weeks)
	}
}
