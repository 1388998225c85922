package analysis

import "runcoach/internal/store"

// CadenceMeta describes what the normalizer found and did.
type CadenceMeta struct {
	Present     bool    // any raw cadence recorded
	OneFoot     bool    // sensor reported single-foot strikes
	Normalized  bool    // this pass wrote CadenceSPM values
	CoveragePct float64 // share of samples carrying raw cadence
}

// NormalizeCadence fills Sample.CadenceSPM from raw sensor cadence.
// Devices that report single-foot strikes (median below ~120) are doubled
// to full steps per minute. The pass is idempotent: samples that already
// carry a normalized value are left alone.
func NormalizeCadence(samples []store.Sample, tun Tunables) CadenceMeta {
	var meta CadenceMeta
	if len(samples) == 0 {
		return meta
	}

	var raw []float64
	alreadyDone := false
	for _, s := range samples {
		if s.CadenceRaw != nil && *s.CadenceRaw > 0 {
			raw = append(raw, float64(*s.CadenceRaw))
		}
		if s.CadenceSPM != nil {
			alreadyDone = true
		}
	}

	meta.Present = len(raw) > 0
	meta.CoveragePct = roundTo(float64(len(raw))/float64(len(samples))*100, 1)
	if !meta.Present {
		return meta
	}

	meta.OneFoot = median(raw) < tun.OneFootCadenceMax
	if alreadyDone {
		return meta
	}

	factor := 1.0
	if meta.OneFoot {
		factor = 2.0
	}
	for i := range samples {
		if samples[i].CadenceRaw != nil && *samples[i].CadenceRaw > 0 {
			spm := float64(*samples[i].CadenceRaw) * factor
			samples[i].CadenceSPM = &spm
		}
	}
	meta.Normalized = true
	return meta
}

// CadenceKPIs are summary indicators over a run's normalized cadence.
// Nil fields mean too few samples.
type CadenceKPIs struct {
	MeanSPM       *float64
	CVPct         *float64
	DriftSPMPerHr *float64
}

// ComputeCadenceKPIs summarizes normalized cadence across a run.
func ComputeCadenceKPIs(samples []store.Sample, tun Tunables) CadenceKPIs {
	var kpis CadenceKPIs

	var times, spms []float64
	for _, s := range samples {
		if s.CadenceSPM != nil && *s.CadenceSPM > 0 {
			times = append(times, float64(s.TimeOffset)/3600)
			spms = append(spms, *s.CadenceSPM)
		}
	}
	if len(spms) < tun.CadenceMinSamples {
		return kpis
	}

	m := mean(spms)
	kpis.MeanSPM = floatPtr(roundTo(m, 1))
	if m > 0 {
		kpis.CVPct = floatPtr(roundTo(stddev(spms)/m*100, 1))
	}
	slope, _, _ := linearRegression(times, spms)
	kpis.DriftSPMPerHr = floatPtr(roundTo(slope, 1))
	return kpis
}

func floatPtr(f float64) *float64 { return &f }
