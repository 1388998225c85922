package analysis

import (
	"math"
	"testing"

	"runcoach/internal/store"
)

func intPtr(i int) *int { return &i }

// syntheticRun builds a steady stream: one sample per 5 s, constant speed,
// heart rate ramping linearly from hrStart to hrEnd.
func syntheticRun(durationSec int, speed float64, hrStart, hrEnd float64, altStep float64) []store.Sample {
	n := durationSec/5 + 1
	samples := make([]store.Sample, 0, n)
	for i := 0; i < n; i++ {
		t := i * 5
		frac := float64(i) / float64(n-1)
		hr := int(hrStart + (hrEnd-hrStart)*frac)
		dist := speed * float64(t)
		alt := 100 + altStep*float64(i)
		v := speed
		samples = append(samples, store.Sample{
			TimeOffset: t,
			DistanceM:  floatPtr(dist),
			Heartrate:  intPtr(hr),
			Speed:      &v,
			Altitude:   &alt,
		})
	}
	return samples
}

func TestEnrich(t *testing.T) {
	tun := DefaultTunables()

	tests := []struct {
		name    string
		samples []store.Sample
		checkFn func(t *testing.T, m store.ActivityMetrics)
	}{
		{
			name:    "no samples",
			samples: nil,
			checkFn: func(t *testing.T, m store.ActivityMetrics) {
				if m.EfficiencyFactor != nil || m.CardiacDriftPct != nil {
					t.Error("expected all metrics unavailable")
				}
			},
		},
		{
			name: "fewer than 5 valid points stays unavailable",
			samples: []store.Sample{
				{TimeOffset: 0, DistanceM: floatPtr(0), Heartrate: intPtr(140), Speed: floatPtr(3)},
				{TimeOffset: 5, DistanceM: floatPtr(15), Heartrate: intPtr(141), Speed: floatPtr(3)},
				{TimeOffset: 10, DistanceM: floatPtr(30), Heartrate: intPtr(142), Speed: floatPtr(3)},
			},
			checkFn: func(t *testing.T, m store.ActivityMetrics) {
				if m.EfficiencyFactor != nil {
					t.Errorf("efficiency = %v, want nil", *m.EfficiencyFactor)
				}
				if m.CardiacDriftPct != nil {
					t.Errorf("drift = %v, want nil", *m.CardiacDriftPct)
				}
			},
		},
		{
			name:    "steady run produces efficiency and near-zero drift",
			samples: syntheticRun(3600, 3.0, 150, 150, 0),
			checkFn: func(t *testing.T, m store.ActivityMetrics) {
				if m.EfficiencyFactor == nil {
					t.Fatal("efficiency unavailable")
				}
				// pace = 16.6667/3 = 5.5556 min/km; 0.43*(150/5.5556)-5.19
				want := 0.43*(150/(16.6667/3)) - 5.19
				if math.Abs(*m.EfficiencyFactor-want) > 0.01 {
					t.Errorf("efficiency = %v, want ~%.3f", *m.EfficiencyFactor, want)
				}
				if m.CardiacDriftPct == nil {
					t.Fatal("drift unavailable")
				}
				if math.Abs(*m.CardiacDriftPct) > 0.5 {
					t.Errorf("drift = %v, want ~0", *m.CardiacDriftPct)
				}
			},
		},
		{
			name:    "rising heart rate yields positive drift and slope",
			samples: syntheticRun(3600, 3.0, 140, 170, 0),
			checkFn: func(t *testing.T, m store.ActivityMetrics) {
				if m.CardiacDriftPct == nil || *m.CardiacDriftPct <= 0 {
					t.Errorf("drift = %v, want > 0", m.CardiacDriftPct)
				}
				if m.DriftSlope == nil || *m.DriftSlope <= 0 {
					t.Errorf("slope = %v, want > 0", m.DriftSlope)
				}
				if m.DriftR2 == nil || *m.DriftR2 < 0.9 {
					t.Errorf("r2 = %v, want near 1", m.DriftR2)
				}
			},
		},
		{
			name:    "climbing run accumulates elevation gain",
			samples: syntheticRun(1800, 3.0, 150, 155, 0.5),
			checkFn: func(t *testing.T, m store.ActivityMetrics) {
				if m.ElevationGainM < 170 || m.ElevationGainM > 190 {
					t.Errorf("elevation gain = %v, want ~180", m.ElevationGainM)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := store.Activity{ID: 1, DistanceM: 10000, DurationSec: 3600}
			m := Enrich(activity, tt.samples, 0, tun)
			tt.checkFn(t, m)
		})
	}
}

func TestEnrichIdempotent(t *testing.T) {
	tun := DefaultTunables()
	activity := store.Activity{ID: 1, DistanceM: 10000, DurationSec: 3600}
	samples := syntheticRun(3600, 3.0, 140, 165, 0.2)

	m1 := Enrich(activity, samples, 185, tun)
	m2 := Enrich(activity, samples, 185, tun)

	if *m1.EfficiencyFactor != *m2.EfficiencyFactor {
		t.Errorf("efficiency differs: %v vs %v", *m1.EfficiencyFactor, *m2.EfficiencyFactor)
	}
	if *m1.CardiacDriftPct != *m2.CardiacDriftPct {
		t.Errorf("drift differs: %v vs %v", *m1.CardiacDriftPct, *m2.CardiacDriftPct)
	}
	if m1.ElevationGainM != m2.ElevationGainM {
		t.Errorf("elevation differs: %v vs %v", m1.ElevationGainM, m2.ElevationGainM)
	}
}

func TestIntensityBands(t *testing.T) {
	tun := DefaultTunables()
	activity := store.Activity{ID: 1}

	// 30 min at HR 160 against reference max 170: 160/170 = 94%, all above 90
	samples := syntheticRun(1800, 3.0, 160, 160, 0)
	m := Enrich(activity, samples, 170, tun)

	if m.TimeAbove90Sec == nil {
		t.Fatal("time above 90% unavailable")
	}
	if *m.TimeAbove90Sec < 1700 {
		t.Errorf("time above 90%% = %v, want ~1800", *m.TimeAbove90Sec)
	}
	if m.Zone2BandPct == nil || *m.Zone2BandPct != 0 {
		t.Errorf("zone2 band = %v, want 0", m.Zone2BandPct)
	}
}

func TestObservedMaxHR(t *testing.T) {
	if got := ObservedMaxHR(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	samples := []store.Sample{
		{TimeOffset: 0, Heartrate: intPtr(140)},
		{TimeOffset: 5, Heartrate: intPtr(172)},
		{TimeOffset: 10, Heartrate: intPtr(150)},
	}
	got := ObservedMaxHR(samples)
	if got == nil || *got != 172 {
		t.Errorf("got %v, want 172", got)
	}
}
