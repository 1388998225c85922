package analysis

import (
	"testing"
	"time"

	"runcoach/internal/store"
)

func weekProgram() store.WeeklyProgram {
	return store.WeeklyProgram{
		WeekNumber: 12,
		StartDate:  "2026-03-09",
		EndDate:    "2026-03-15",
		PlannedRuns: []store.PlannedRun{
			{Day: "Tuesday", Date: "2026-03-10", Category: store.CategoryRecoveryShort, DistanceKm: 5},
			{Day: "Thursday", Date: "2026-03-12", Category: store.CategoryFastShort, DistanceKm: 6},
			{Day: "Sunday", Date: "2026-03-15", Category: store.CategoryLongRun, DistanceKm: 14},
		},
		TotalKm: 25,
	}
}

func dayActivity(id int64, date string, category string, km float64) store.Activity {
	d, _ := time.Parse("2006-01-02", date)
	return store.Activity{
		ID:        id,
		StartDate: d.Add(7 * time.Hour),
		Category:  category,
		DistanceM: km * 1000,
	}
}

func TestScoreWeek(t *testing.T) {
	tun := DefaultTunables()

	t.Run("perfect week scores high", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
			dayActivity(2, "2026-03-12", store.CategoryFastShort, 6),
			dayActivity(3, "2026-03-15", store.CategoryLongRun, 14),
		}
		report := ScoreWeek(weekProgram(), activities, nil, nil, nil, nil, tun)
		rec := report.Record

		if rec.WeekNumber != 12 {
			t.Errorf("week = %d", rec.WeekNumber)
		}
		if rec.Volume != 10 || rec.Adherence != 10 || rec.TypeMatch != 10 || rec.Regularity != 10 {
			t.Errorf("components = %+v, want all 10", rec)
		}
		if rec.Quality != 7.0 {
			t.Errorf("quality without targets = %v, want default 7.0", rec.Quality)
		}
		// 0.2*10+0.2*10+0.2*10+0.3*7+0.1*10 = 9.1
		if rec.Score != 9.1 {
			t.Errorf("score = %v, want 9.1", rec.Score)
		}
		if len(report.Improvements) != 0 {
			t.Errorf("improvements = %v, want none", report.Improvements)
		}
		if len(report.Strengths) == 0 {
			t.Error("expected strengths")
		}
	})

	t.Run("missed runs hurt adherence", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
		}
		report := ScoreWeek(weekProgram(), activities, nil, nil, nil, nil, tun)
		rec := report.Record

		if rec.Adherence != roundTo(10.0/3, 1) {
			t.Errorf("adherence = %v, want %v", rec.Adherence, roundTo(10.0/3, 1))
		}
		missed := 0
		for _, m := range report.Matches {
			if m.Activity == nil {
				missed++
			}
		}
		if missed != 2 {
			t.Errorf("missed = %d, want 2", missed)
		}
		if len(report.Improvements) == 0 {
			t.Error("expected improvement areas")
		}
	})

	t.Run("category fallback matches within the week", func(t *testing.T) {
		// Long run done on Saturday instead of Sunday
		activities := []store.Activity{
			dayActivity(3, "2026-03-14", store.CategoryLongRun, 14),
		}
		report := ScoreWeek(weekProgram(), activities, nil, nil, nil, nil, tun)

		var longMatch *RunMatch
		for i := range report.Matches {
			if report.Matches[i].Planned.Category == store.CategoryLongRun {
				longMatch = &report.Matches[i]
			}
		}
		if longMatch == nil || longMatch.Activity == nil {
			t.Fatal("long run should match by category")
		}
		if longMatch.ByDate {
			t.Error("match should be by category, not date")
		}
	})

	t.Run("each activity realizes one planned run", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
		}
		// add a second planned recovery run; the single activity must not
		// count for both
		program := weekProgram()
		program.PlannedRuns = append(program.PlannedRuns, store.PlannedRun{
			Day: "Friday", Date: "2026-03-13", Category: store.CategoryRecoveryShort, DistanceKm: 4,
		})
		report := ScoreWeek(program, activities, nil, nil, nil, nil, tun)

		matched := 0
		for _, m := range report.Matches {
			if m.Activity != nil {
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("matched = %d, want 1", matched)
		}
	})

	t.Run("quality compares week means to targets", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
		}
		metrics := map[int64]*store.ActivityMetrics{
			1: {ActivityID: 1, EfficiencyFactor: floatPtr(6.0), CardiacDriftPct: floatPtr(4.0)},
		}
		targets := []store.PersonalizedTarget{
			{Category: store.CategoryRecoveryShort, EfficiencyTarget: 6.0, DriftTarget: 4.0},
		}
		report := ScoreWeek(weekProgram(), activities, metrics, targets, nil, nil, tun)
		if report.Record.Quality != 10 {
			t.Errorf("quality at target = %v, want 10", report.Record.Quality)
		}

		// Below the efficiency target by 10% costs a point
		metrics[1].EfficiencyFactor = floatPtr(5.4)
		report = ScoreWeek(weekProgram(), activities, metrics, targets, nil, nil, tun)
		if report.Record.Quality != 9.5 {
			t.Errorf("quality = %v, want 9.5", report.Record.Quality)
		}
	})

	t.Run("feedback notes flow through to matches", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
			dayActivity(3, "2026-03-15", store.CategoryLongRun, 14),
		}
		notes := map[int64]string{3: "legs felt heavy after km 10"}
		report := ScoreWeek(weekProgram(), activities, nil, nil, nil, notes, tun)

		for _, m := range report.Matches {
			switch {
			case m.Activity == nil:
				if m.Note != "" {
					t.Errorf("missed run carries note %q", m.Note)
				}
			case m.Activity.ID == 3:
				if m.Note != "legs felt heavy after km 10" {
					t.Errorf("note = %q", m.Note)
				}
			default:
				if m.Note != "" {
					t.Errorf("activity %d note = %q, want empty", m.Activity.ID, m.Note)
				}
			}
		}
	})

	t.Run("trend compares to the previous score", func(t *testing.T) {
		activities := []store.Activity{
			dayActivity(1, "2026-03-10", store.CategoryRecoveryShort, 5),
			dayActivity(2, "2026-03-12", store.CategoryFastShort, 6),
			dayActivity(3, "2026-03-15", store.CategoryLongRun, 14),
		}
		prev := 7.0
		report := ScoreWeek(weekProgram(), activities, nil, nil, &prev, nil, tun)
		if report.Record.Trend != "up" {
			t.Errorf("trend = %s, want up", report.Record.Trend)
		}

		prev = 9.2
		report = ScoreWeek(weekProgram(), activities, nil, nil, &prev, nil, tun)
		if report.Record.Trend != "stable" {
			t.Errorf("trend = %s, want stable", report.Record.Trend)
		}
	})
}
