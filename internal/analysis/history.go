package analysis

// HistoryPoint is one prior run's efficiency/drift pair, ordered
// oldest-first by the caller.
type HistoryPoint struct {
	Efficiency float64
	Drift      float64 // percent
}

// RollingStats is the historical context attached to one activity, computed
// over up to 10 strictly-prior same-category runs. Nil means no history.
type RollingStats struct {
	AvgEfficiency *float64
	AvgDrift      *float64
	EfficiencyP10 *float64
	EfficiencyP90 *float64
	DriftP10      *float64
	DriftP90      *float64

	// -1, 0, +1. For drift, -1 means improving (falling drift).
	EfficiencyTrend int
	DriftTrend      int

	SampleSize int
}

// ComputeRollingStats summarizes the most recent window of prior
// same-category runs. history must be ordered oldest-first and already
// filtered to valid efficiency+drift pairs.
func ComputeRollingStats(history []HistoryPoint, tun Tunables) RollingStats {
	var stats RollingStats
	if len(history) == 0 {
		return stats
	}
	if len(history) > tun.HistoryWindow {
		history = history[len(history)-tun.HistoryWindow:]
	}
	stats.SampleSize = len(history)

	var effs, drifts []float64
	for _, h := range history {
		effs = append(effs, h.Efficiency)
		drifts = append(drifts, h.Drift)
	}

	stats.AvgEfficiency = floatPtr(roundTo(mean(effs), 3))
	stats.AvgDrift = floatPtr(roundTo(mean(drifts), 1))
	stats.EfficiencyP10 = floatPtr(roundTo(percentile(effs, 10), 3))
	stats.EfficiencyP90 = floatPtr(roundTo(percentile(effs, 90), 3))
	stats.DriftP10 = floatPtr(roundTo(percentile(drifts, 10), 1))
	stats.DriftP90 = floatPtr(roundTo(percentile(drifts, 90), 1))

	if len(history) >= tun.TrendMinSamples {
		stats.EfficiencyTrend = halfTrend(effs, tun.EfficiencyTrendDeadband)
		stats.DriftTrend = halfTrend(drifts, tun.DriftTrendDeadband)
	}
	return stats
}

// halfTrend compares the recent half's mean to the older half's.
// Returns +1 when rising beyond the deadband, -1 when falling.
func halfTrend(xs []float64, deadband float64) int {
	mid := len(xs) / 2
	diff := mean(xs[mid:]) - mean(xs[:mid])
	switch {
	case diff > deadband:
		return 1
	case diff < -deadband:
		return -1
	default:
		return 0
	}
}
