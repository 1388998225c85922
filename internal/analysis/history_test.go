package analysis

import "testing"

func TestComputeRollingStats(t *testing.T) {
	tun := DefaultTunables()

	tests := []struct {
		name    string
		history []HistoryPoint
		checkFn func(t *testing.T, s RollingStats)
	}{
		{
			name:    "empty history",
			history: nil,
			checkFn: func(t *testing.T, s RollingStats) {
				if s.AvgEfficiency != nil || s.SampleSize != 0 {
					t.Errorf("want empty stats, got %+v", s)
				}
			},
		},
		{
			name: "means and percentiles",
			history: []HistoryPoint{
				{Efficiency: 6.0, Drift: 4.0},
				{Efficiency: 6.2, Drift: 5.0},
				{Efficiency: 6.4, Drift: 6.0},
			},
			checkFn: func(t *testing.T, s RollingStats) {
				if s.SampleSize != 3 {
					t.Fatalf("sample size = %d", s.SampleSize)
				}
				if *s.AvgEfficiency != 6.2 {
					t.Errorf("avg efficiency = %v, want 6.2", *s.AvgEfficiency)
				}
				if *s.AvgDrift != 5.0 {
					t.Errorf("avg drift = %v, want 5.0", *s.AvgDrift)
				}
				if *s.EfficiencyP10 >= *s.EfficiencyP90 {
					t.Errorf("p10 %v should be below p90 %v", *s.EfficiencyP10, *s.EfficiencyP90)
				}
				if s.EfficiencyTrend != 0 {
					t.Errorf("trend with <6 samples = %d, want 0", s.EfficiencyTrend)
				}
			},
		},
		{
			name: "window keeps the most recent 10",
			history: func() []HistoryPoint {
				var h []HistoryPoint
				for i := 0; i < 15; i++ {
					h = append(h, HistoryPoint{Efficiency: float64(i), Drift: 5})
				}
				return h
			}(),
			checkFn: func(t *testing.T, s RollingStats) {
				if s.SampleSize != 10 {
					t.Errorf("sample size = %d, want 10", s.SampleSize)
				}
				// points 5..14, mean 9.5
				if *s.AvgEfficiency != 9.5 {
					t.Errorf("avg = %v, want 9.5", *s.AvgEfficiency)
				}
			},
		},
		{
			name: "improving efficiency trend",
			history: []HistoryPoint{
				{Efficiency: 5.8, Drift: 5.0}, {Efficiency: 5.9, Drift: 5.0},
				{Efficiency: 5.8, Drift: 5.0}, {Efficiency: 6.3, Drift: 5.0},
				{Efficiency: 6.4, Drift: 5.0}, {Efficiency: 6.4, Drift: 5.0},
			},
			checkFn: func(t *testing.T, s RollingStats) {
				if s.EfficiencyTrend != 1 {
					t.Errorf("efficiency trend = %d, want +1", s.EfficiencyTrend)
				}
				if s.DriftTrend != 0 {
					t.Errorf("drift trend = %d, want 0", s.DriftTrend)
				}
			},
		},
		{
			name: "worsening drift trend",
			history: []HistoryPoint{
				{Efficiency: 6.0, Drift: 3.0}, {Efficiency: 6.0, Drift: 3.1},
				{Efficiency: 6.0, Drift: 3.0}, {Efficiency: 6.0, Drift: 4.5},
				{Efficiency: 6.0, Drift: 4.6}, {Efficiency: 6.0, Drift: 4.7},
			},
			checkFn: func(t *testing.T, s RollingStats) {
				if s.DriftTrend != 1 {
					t.Errorf("drift trend = %d, want +1", s.DriftTrend)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, ComputeRollingStats(tt.history, tun))
		})
	}
}

func TestRollingStatsDeterministic(t *testing.T) {
	tun := DefaultTunables()
	history := []HistoryPoint{
		{6.0, 4.0}, {6.1, 4.1}, {6.2, 4.2}, {6.3, 4.3}, {6.4, 4.4}, {6.5, 4.5},
	}
	s1 := ComputeRollingStats(history, tun)
	s2 := ComputeRollingStats(history, tun)
	if *s1.AvgEfficiency != *s2.AvgEfficiency || s1.EfficiencyTrend != s2.EfficiencyTrend {
		t.Error("rolling stats not deterministic")
	}
}
