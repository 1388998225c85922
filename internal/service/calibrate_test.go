package service

import (
	"testing"
	"time"

	"runcoach/internal/analysis"
	"runcoach/internal/store"
)

func TestCalibrateBlendedTheoryOnly(t *testing.T) {
	db := store.OpenTest(t)
	c := NewCalibrator(db, testProfile(), analysis.DefaultTunables())

	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	targets, err := c.CalibrateBlended(now)
	if err != nil {
		t.Fatalf("calibrating: %v", err)
	}

	if len(targets) != 3 {
		t.Fatalf("got %d targets, want one per intensity", len(targets))
	}
	for _, tgt := range targets {
		if !tgt.TheoryOnly {
			t.Errorf("%s: theory-only not flagged with empty history", tgt.Category)
		}
		if tgt.EfficiencyTarget <= 0 || tgt.DriftTarget <= 0 {
			t.Errorf("%s: degenerate target %+v", tgt.Category, tgt)
		}
	}

	entries, err := db.ListChangelog(10)
	if err != nil {
		t.Fatalf("listing changelog: %v", err)
	}
	skipped := 0
	for _, e := range entries {
		if e.Reason == "calibration-skipped" {
			skipped++
		}
	}
	if skipped != 3 {
		t.Errorf("got %d calibration-skipped entries, want 3", skipped)
	}
}

func TestEvaluateTriggersRelaxesAfterLowScores(t *testing.T) {
	db := store.OpenTest(t)

	err := db.UpsertTarget(&store.PersonalizedTarget{
		Category:         store.CategoryMidDistance,
		EfficiencyTarget: 6.0,
		DriftTarget:      5.0,
		SampleSize:       10,
	})
	if err != nil {
		t.Fatalf("upserting target: %v", err)
	}

	// four consecutive sub-7 weeks
	for week, score := range map[int]float64{9: 6.2, 10: 5.8, 11: 6.9, 12: 6.0} {
		rec := store.WeeklyScoreRecord{WeekNumber: week, Score: score, Trend: "stable", CreatedAt: time.Now()}
		if err := db.SaveWeeklyScore(&rec); err != nil {
			t.Fatalf("saving score: %v", err)
		}
	}

	c := NewCalibrator(db, testProfile(), analysis.DefaultTunables())
	result, err := c.EvaluateTriggers()
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if !result.Relaxed || result.Tightened != nil {
		t.Fatalf("result = %+v, want relax", result)
	}

	updated, err := db.GetTarget(store.CategoryMidDistance)
	if err != nil {
		t.Fatalf("loading target: %v", err)
	}
	if updated.EfficiencyTarget >= 6.0 {
		t.Errorf("efficiency target = %v, want below 6.0", updated.EfficiencyTarget)
	}
	if updated.DriftTarget <= 5.0 {
		t.Errorf("drift target = %v, want above 5.0", updated.DriftTarget)
	}
}

func TestEvaluateTriggersNoTargets(t *testing.T) {
	db := store.OpenTest(t)
	c := NewCalibrator(db, testProfile(), analysis.DefaultTunables())

	result, err := c.EvaluateTriggers()
	if err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	if result.Relaxed || len(result.Updated) != 0 {
		t.Errorf("result = %+v, want no action", result)
	}
}
