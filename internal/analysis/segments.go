package analysis

import "runcoach/internal/store"

// Pattern tags detected over a run's segment profile.
const (
	PatternFastStart      = "fast-start"
	PatternLateFade       = "late-fade"
	PatternRisingHR       = "rising-hr"
	PatternExcessiveDrift = "excessive-drift"
	PatternWellManaged    = "well-managed"
)

// Segment is one equal-distance slice of a run after the warm-up skip.
type Segment struct {
	Index      int
	StartKm    float64
	EndKm      float64
	PaceMinKm  float64
	HRStart    float64
	HREnd      float64
	HRAvg      float64
	HRMax      float64
	IntraDrift float64 // HR end minus HR start, bpm

	// Deltas vs the previous segment; nil on the first.
	PaceDiff *float64
	HRDiff   *float64
}

// ComputeSegments slices a run into 2-4 equal-distance segments, skipping
// the first 300 m of warm-up when enough distance remains. Returns nil
// when less than a usable kilometer exists.
func ComputeSegments(samples []store.Sample, tun Tunables) []Segment {
	var totalM float64
	for _, s := range samples {
		if s.DistanceM != nil && *s.DistanceM > totalM {
			totalM = *s.DistanceM
		}
	}

	skipM := tun.SegmentWarmupM
	if totalM-skipM < 1000 {
		skipM = 0
	}
	usableM := totalM - skipM
	if usableM < 1000 {
		return nil
	}

	usableKm := usableM / 1000
	count := 2
	switch {
	case usableKm > 12:
		count = 4
	case usableKm >= 7:
		count = 3
	}

	segLen := usableM / float64(count)
	segments := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		startM := skipM + float64(i)*segLen
		endM := startM + segLen

		seg := Segment{
			Index:   i + 1,
			StartKm: roundTo(startM/1000, 2),
			EndKm:   roundTo(endM/1000, 2),
		}

		var speeds, hrs []float64
		for _, s := range samples {
			if s.DistanceM == nil || *s.DistanceM < startM || *s.DistanceM >= endM {
				continue
			}
			if s.Speed != nil && *s.Speed > 0 {
				speeds = append(speeds, *s.Speed)
			}
			if s.Heartrate != nil && *s.Heartrate > 0 {
				hrs = append(hrs, float64(*s.Heartrate))
			}
		}

		if meanSpeed := mean(speeds); meanSpeed > 0 {
			seg.PaceMinKm = roundTo((1/meanSpeed)*16.6667, 2)
		}
		if len(hrs) > 0 {
			seg.HRStart = hrs[0]
			seg.HREnd = hrs[len(hrs)-1]
			seg.HRAvg = roundTo(mean(hrs), 1)
			for _, hr := range hrs {
				if hr > seg.HRMax {
					seg.HRMax = hr
				}
			}
			seg.IntraDrift = roundTo(seg.HREnd-seg.HRStart, 1)
		}

		if i > 0 {
			prev := segments[i-1]
			if seg.PaceMinKm > 0 && prev.PaceMinKm > 0 {
				seg.PaceDiff = floatPtr(roundTo(seg.PaceMinKm-prev.PaceMinKm, 2))
			}
			if seg.HRAvg > 0 && prev.HRAvg > 0 {
				seg.HRDiff = floatPtr(roundTo(seg.HRAvg-prev.HRAvg, 1))
			}
		}

		segments = append(segments, seg)
	}
	return segments
}

// DetectPatterns tags pacing behaviors over the segment profile.
func DetectPatterns(segments []Segment, tun Tunables) []string {
	if len(segments) < 2 {
		return nil
	}
	var patterns []string

	first, last := segments[0], segments[len(segments)-1]

	if first.PaceMinKm > 0 && last.PaceMinKm > 0 {
		diff := last.PaceMinKm - first.PaceMinKm
		if first.PaceMinKm <= last.PaceMinKm*(1-tun.FastStartPct) && diff*60 > tun.FastStartSecPerKm {
			patterns = append(patterns, PatternFastStart)
		}
	}

	if len(segments) >= 3 && last.PaceMinKm > 0 {
		var others []float64
		for _, s := range segments[:len(segments)-1] {
			if s.PaceMinKm > 0 {
				others = append(others, s.PaceMinKm)
			}
		}
		if len(others) > 0 && last.PaceMinKm > (1+tun.LateFadePct)*mean(others) {
			patterns = append(patterns, PatternLateFade)
		}
	}

	rising := true
	for i := 1; i < len(segments); i++ {
		if segments[i].HRAvg <= segments[i-1].HRAvg || segments[i].HRAvg == 0 {
			rising = false
			break
		}
	}
	if rising {
		patterns = append(patterns, PatternRisingHR)
	}

	for _, s := range segments {
		if s.IntraDrift > tun.SegmentDriftBPM {
			patterns = append(patterns, PatternExcessiveDrift)
			break
		}
	}

	var paces, hrs []float64
	for _, s := range segments {
		if s.PaceMinKm > 0 {
			paces = append(paces, s.PaceMinKm)
		}
		if s.HRAvg > 0 {
			hrs = append(hrs, s.HRAvg)
		}
	}
	if len(paces) == len(segments) && len(hrs) == len(segments) &&
		spread(paces) < tun.ManagedPaceRange && spread(hrs) < tun.ManagedHRRange {
		patterns = append(patterns, PatternWellManaged)
	}

	return patterns
}

// Trend labels for historical segment comparison.
const (
	TrendFaster  = "faster"
	TrendSlower  = "slower"
	TrendHigher  = "higher"
	TrendLower   = "lower"
	TrendSimilar = "similar"
)

// SegmentComparison relates one current segment to the same segment index
// across prior same-category runs.
type SegmentComparison struct {
	Index          int
	PaceTrend      string
	HRTrend        string
	DriftTrend     string
	PacePercentile *float64 // share of prior runs this segment beat
	SampleSize     int
}

// CompareSegments matches each current segment against the same index in
// up to 15 prior same-category runs. Needs at least 3 comparable runs.
func CompareSegments(current []Segment, history [][]Segment, tun Tunables) []SegmentComparison {
	if len(history) > tun.SegmentHistoryCap {
		history = history[:tun.SegmentHistoryCap]
	}

	var comparisons []SegmentComparison
	for _, seg := range current {
		var paces, hrs, drifts []float64
		for _, run := range history {
			for _, prior := range run {
				if prior.Index != seg.Index {
					continue
				}
				if prior.PaceMinKm > 0 {
					paces = append(paces, prior.PaceMinKm)
				}
				if prior.HRAvg > 0 {
					hrs = append(hrs, prior.HRAvg)
				}
				drifts = append(drifts, prior.IntraDrift)
			}
		}
		if len(paces) < tun.SegmentHistoryMin {
			continue
		}

		cmp := SegmentComparison{Index: seg.Index, SampleSize: len(paces)}

		paceDelta := (seg.PaceMinKm - mean(paces)) * 60 // s/km
		switch {
		case paceDelta < -tun.PaceDeadbandSec:
			cmp.PaceTrend = TrendFaster
		case paceDelta > tun.PaceDeadbandSec:
			cmp.PaceTrend = TrendSlower
		default:
			cmp.PaceTrend = TrendSimilar
		}

		if len(hrs) >= tun.SegmentHistoryMin && seg.HRAvg > 0 {
			hrDelta := seg.HRAvg - mean(hrs)
			switch {
			case hrDelta > tun.HRDeadbandBPM:
				cmp.HRTrend = TrendHigher
			case hrDelta < -tun.HRDeadbandBPM:
				cmp.HRTrend = TrendLower
			default:
				cmp.HRTrend = TrendSimilar
			}
		}

		driftDelta := seg.IntraDrift - mean(drifts)
		switch {
		case driftDelta > tun.DriftDeadbandBPM:
			cmp.DriftTrend = TrendHigher
		case driftDelta < -tun.DriftDeadbandBPM:
			cmp.DriftTrend = TrendLower
		default:
			cmp.DriftTrend = TrendSimilar
		}

		beaten := 0
		for _, p := range paces {
			if seg.PaceMinKm < p {
				beaten++
			}
		}
		cmp.PacePercentile = floatPtr(roundTo(float64(beaten)/float64(len(paces))*100, 0))

		comparisons = append(comparisons, cmp)
	}
	return comparisons
}

func spread(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return hi - lo
}
