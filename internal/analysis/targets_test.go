package analysis

import (
	"math"
	"testing"

	"runcoach/internal/store"
)

func TestTanakaMaxHR(t *testing.T) {
	if got := TanakaMaxHR(40); got != 180 {
		t.Errorf("TanakaMaxHR(40) = %v, want 180", got)
	}
}

func TestTheoreticalEfficiency(t *testing.T) {
	tests := []struct {
		pctMax float64
		want   float64
	}{
		{65, 1.025},
		{80, 0.8},
		{90, 0.65},
		{100, 0.5}, // floored
	}
	for _, tt := range tests {
		if got := TheoreticalEfficiency(tt.pctMax); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("TheoreticalEfficiency(%v) = %v, want %v", tt.pctMax, got, tt.want)
		}
	}
}

func TestTheoreticalDrift(t *testing.T) {
	// Higher intensity must predict more drift at the same age.
	easy := TheoreticalDrift(40, 65)
	hard := TheoreticalDrift(40, 90)
	if easy <= 0 {
		t.Errorf("easy drift = %v, want > 0", easy)
	}
	if hard <= easy {
		t.Errorf("drift at 90%% (%v) should exceed drift at 65%% (%v)", hard, easy)
	}
}

func longRun(eff, drift float64) TargetInput {
	return TargetInput{Category: store.CategoryLongRun, Efficiency: &eff, Drift: &drift}
}

func TestBlendedTargets(t *testing.T) {
	tun := DefaultTunables()

	t.Run("thin history is theory only", func(t *testing.T) {
		targets := BlendedTargets(40, []TargetInput{longRun(6.0, 4.0)}, tun)
		if len(targets) != 3 {
			t.Fatalf("targets = %d, want 3", len(targets))
		}
		for _, target := range targets {
			if !target.TheoryOnly {
				t.Errorf("%s: want theory-only fallback", target.Category)
			}
			if target.ReferenceMaxHR != 180 {
				t.Errorf("%s: reference max = %v, want 180", target.Category, target.ReferenceMaxHR)
			}
		}
	})

	t.Run("enough history blends 60/40", func(t *testing.T) {
		runs := []TargetInput{
			longRun(5.8, 6.0), longRun(6.0, 5.5), longRun(6.2, 5.0),
			longRun(6.4, 4.5), longRun(6.6, 4.0),
		}
		targets := BlendedTargets(40, runs, tun)

		var easy *store.PersonalizedTarget
		for i := range targets {
			if targets[i].Category == IntensityEasy {
				easy = &targets[i]
			}
		}
		if easy == nil {
			t.Fatal("no easy target")
		}
		if easy.TheoryOnly {
			t.Error("easy should not be theory-only with 5 runs")
		}
		if easy.SampleSize != 5 {
			t.Errorf("sample size = %d, want 5", easy.SampleSize)
		}
		// top quartile starts at index 3: median of [6.4 6.6] = 6.5;
		// theory at 65% = 1.025
		wantEff := roundTo(0.6*6.5+0.4*1.025, 2)
		if easy.EfficiencyTarget != wantEff {
			t.Errorf("efficiency target = %v, want %v", easy.EfficiencyTarget, wantEff)
		}
		// best (lowest) drift quartile: sorted [4.0 4.5 5.0 5.5 6.0], idx=1,
		// median of first two = 4.25
		wantDrift := roundTo(0.6*4.25+0.4*TheoreticalDrift(40, 65), 2)
		if easy.DriftTarget != wantDrift {
			t.Errorf("drift target = %v, want %v", easy.DriftTarget, wantDrift)
		}
	})

	t.Run("interval sessions match by flag", func(t *testing.T) {
		eff, drift := 7.0, 10.0
		runs := []TargetInput{
			{Category: store.CategoryFastShort, IsInterval: true, Efficiency: &eff, Drift: &drift},
			{Category: store.CategoryFastShort, IsInterval: true, Efficiency: &eff, Drift: &drift},
			{Category: store.CategoryFastShort, IsInterval: true, Efficiency: &eff, Drift: &drift},
		}
		targets := BlendedTargets(40, runs, tun)
		for _, target := range targets {
			if target.Category == IntensityInterval {
				if target.TheoryOnly {
					t.Error("interval should blend with 3 flagged runs")
				}
				if target.SampleSize != 3 {
					t.Errorf("sample size = %d, want 3", target.SampleSize)
				}
			}
			if target.Category == IntensityTempo && target.SampleSize != 0 {
				t.Errorf("interval runs must not count as tempo, size = %d", target.SampleSize)
			}
		}
	})
}

func catRun(category string, eff, drift float64) TargetInput {
	return TargetInput{Category: category, Efficiency: &eff, Drift: &drift}
}

func TestPercentileTargets(t *testing.T) {
	tun := DefaultTunables()

	t.Run("needs 5 clean points per category", func(t *testing.T) {
		runs := []TargetInput{
			catRun(store.CategoryLongRun, 6.0, 4.0),
			catRun(store.CategoryLongRun, 6.1, 4.1),
			catRun(store.CategoryLongRun, 6.2, 4.2),
			catRun(store.CategoryLongRun, 6.3, 4.3),
		}
		if got := PercentileTargets(runs, 180, tun); len(got) != 0 {
			t.Errorf("targets = %v, want none", got)
		}
	})

	t.Run("outliers are filtered before counting", func(t *testing.T) {
		runs := []TargetInput{
			catRun(store.CategoryLongRun, 6.0, 4.0),
			catRun(store.CategoryLongRun, 6.1, 4.1),
			catRun(store.CategoryLongRun, 6.2, 4.2),
			catRun(store.CategoryLongRun, 6.3, 4.3),
			catRun(store.CategoryLongRun, 20.0, 4.4), // efficiency out of range
		}
		if got := PercentileTargets(runs, 180, tun); len(got) != 0 {
			t.Errorf("targets = %v, want none after outlier filtering", got)
		}
	})

	t.Run("drift floor clamps low percentiles", func(t *testing.T) {
		runs := []TargetInput{
			catRun(store.CategoryLongRun, 6.0, 0.5),
			catRun(store.CategoryLongRun, 6.1, 0.6),
			catRun(store.CategoryLongRun, 6.2, 0.7),
			catRun(store.CategoryLongRun, 6.3, 0.8),
			catRun(store.CategoryLongRun, 6.4, 0.9),
		}
		got := PercentileTargets(runs, 180, tun)
		if len(got) != 1 {
			t.Fatalf("targets = %d, want 1", len(got))
		}
		if got[0].DriftTarget != tun.DriftFloors[store.CategoryLongRun] {
			t.Errorf("drift target = %v, want floor %v",
				got[0].DriftTarget, tun.DriftFloors[store.CategoryLongRun])
		}
		if got[0].EfficiencyTarget <= 0 {
			t.Errorf("efficiency target = %v", got[0].EfficiencyTarget)
		}
	})
}

func TestEvaluateRecalibration(t *testing.T) {
	tun := DefaultTunables()

	targets := []store.PersonalizedTarget{
		{Category: store.CategoryLongRun, EfficiencyTarget: 6.0, DriftTarget: 4.0},
		{Category: store.CategoryMidDistance, EfficiencyTarget: 5.5, DriftTarget: 5.0},
	}

	t.Run("tightening needs two beating categories", func(t *testing.T) {
		recent := map[string][]HistoryPoint{
			store.CategoryLongRun:     {{6.5, 3.0}, {6.6, 3.1}},
			store.CategoryMidDistance: {{6.0, 4.0}, {6.1, 4.1}},
		}
		result := EvaluateRecalibration(targets, recent, nil, tun)
		if len(result.Tightened) != 2 {
			t.Fatalf("tightened = %v, want both categories", result.Tightened)
		}
		if result.Relaxed {
			t.Error("tightening and relaxation are mutually exclusive")
		}
		for _, u := range result.Updated {
			if u.Category == store.CategoryLongRun {
				if u.EfficiencyTarget != 6.3 {
					t.Errorf("efficiency = %v, want 6.3", u.EfficiencyTarget)
				}
				if u.DriftTarget != 3.8 {
					t.Errorf("drift = %v, want 3.8", u.DriftTarget)
				}
			}
		}
		if len(result.Changelog) != 2 {
			t.Errorf("changelog entries = %d, want 2", len(result.Changelog))
		}
	})

	t.Run("one beating category does nothing", func(t *testing.T) {
		recent := map[string][]HistoryPoint{
			store.CategoryLongRun: {{6.5, 3.0}},
		}
		result := EvaluateRecalibration(targets, recent, []float64{8, 8, 8, 8}, tun)
		if len(result.Tightened) != 0 || result.Relaxed {
			t.Errorf("unexpected action: %+v", result)
		}
	})

	t.Run("four weak weeks relax everything", func(t *testing.T) {
		result := EvaluateRecalibration(targets, nil, []float64{6.2, 5.8, 6.9, 6.0}, tun)
		if !result.Relaxed {
			t.Fatal("expected relaxation")
		}
		if len(result.Tightened) != 0 {
			t.Error("relaxation must not tighten")
		}
		if len(result.Updated) != 2 {
			t.Fatalf("updated = %d, want 2", len(result.Updated))
		}
		// long-run: 6.0*0.97 = 5.82, 4.0*1.03 = 4.12
		if result.Updated[0].EfficiencyTarget != 5.82 {
			t.Errorf("efficiency = %v, want 5.82", result.Updated[0].EfficiencyTarget)
		}
		if result.Updated[0].DriftTarget != 4.12 {
			t.Errorf("drift = %v, want 4.12", result.Updated[0].DriftTarget)
		}
	})

	t.Run("a strong recent week blocks relaxation", func(t *testing.T) {
		result := EvaluateRecalibration(targets, nil, []float64{7.5, 5.8, 6.9, 6.0}, tun)
		if result.Relaxed {
			t.Error("should not relax with a week at threshold")
		}
	})
}
