package analysis

import "runcoach/internal/store"

// enrichedPoint is one valid telemetry point with derived kinematics.
type enrichedPoint struct {
	elapsedSec float64
	distKm     float64
	hr         float64
	speed      float64 // m/s
	pace       float64 // grade-adjusted min/km
	ratio      float64 // hr / pace
}

// Enrich derives all per-activity kinematic indicators from the raw sample
// stream. refMaxHR is the observed max across interval sessions, used for
// the coarse intensity bands; pass 0 to skip those. Fields stay nil when
// fewer than the minimum valid points exist — nil is "unavailable", which
// callers must keep distinct from zero.
func Enrich(activity store.Activity, samples []store.Sample, refMaxHR float64, tun Tunables) store.ActivityMetrics {
	metrics := store.ActivityMetrics{ActivityID: activity.ID}
	if len(samples) == 0 {
		return metrics
	}

	metrics.ElevationGainM = elevationGain(samples)
	if refMaxHR > 0 {
		above90, zone2Band := intensityBands(samples, refMaxHR)
		metrics.TimeAbove90Sec = above90
		metrics.Zone2BandPct = zone2Band
	}

	points := validPoints(samples, tun)
	if len(points) < tun.MinValidPoints {
		return metrics
	}

	window := analysisWindow(points, tun)
	if len(window) < tun.MinValidPoints {
		return metrics
	}

	var hrs, paces, ratios, dists []float64
	for _, p := range window {
		hrs = append(hrs, p.hr)
		paces = append(paces, p.pace)
		ratios = append(ratios, p.ratio)
		dists = append(dists, p.distKm)
	}

	meanHR := mean(hrs)
	meanPace := mean(paces)
	if meanPace > 0 {
		ef := roundTo(0.43*(meanHR/meanPace)-5.19, 3)
		metrics.EfficiencyFactor = &ef
	}

	slope, _, r2 := linearRegression(dists, ratios)
	metrics.DriftSlope = floatPtr(roundTo(slope, 4))
	metrics.DriftR2 = floatPtr(roundTo(r2, 3))

	metrics.CollapseKm = floatPtr(collapseDistance(window, tun))

	if meanPace > 0 {
		metrics.PaceCV = floatPtr(roundTo(stddev(paces)/meanPace, 3))
	}
	if meanRatio := mean(ratios); meanRatio > 0 {
		metrics.RatioCV = floatPtr(roundTo(stddev(ratios)/meanRatio, 3))
	}

	metrics.CardiacDriftPct = twoHalfDrift(window, tun)
	metrics.EnduranceIndex = enduranceIndex(window)

	return metrics
}

// ObservedMaxHR returns the highest heart rate in a stream, nil without HR.
func ObservedMaxHR(samples []store.Sample) *float64 {
	var maxHR float64
	for _, s := range samples {
		if s.Heartrate != nil && float64(*s.Heartrate) > maxHR {
			maxHR = float64(*s.Heartrate)
		}
	}
	if maxHR == 0 {
		return nil
	}
	return &maxHR
}

// validPoints keeps samples with HR, positive speed and distance, and a
// grade-adjusted pace that survives correction.
func validPoints(samples []store.Sample, tun Tunables) []enrichedPoint {
	var points []enrichedPoint
	var prevDist, prevAlt float64
	havePrev := false

	for _, s := range samples {
		if s.DistanceM == nil {
			continue
		}
		dist := *s.DistanceM

		grade := 0.0
		if s.Altitude != nil {
			if havePrev {
				deltaDist := dist - prevDist
				if deltaDist < 1 {
					deltaDist = 1
				}
				grade = (*s.Altitude - prevAlt) / deltaDist * 100
			}
			prevAlt = *s.Altitude
		}
		prevDist = dist
		havePrev = true

		if s.Heartrate == nil || *s.Heartrate <= 0 || s.Speed == nil || *s.Speed <= 0 {
			continue
		}

		rawPace := (1 / *s.Speed) * 16.6667
		pace := rawPace - tun.GradePaceFactor*grade
		if pace < 0 {
			continue
		}

		hr := float64(*s.Heartrate)
		points = append(points, enrichedPoint{
			elapsedSec: float64(s.TimeOffset),
			distKm:     dist / 1000,
			hr:         hr,
			speed:      *s.Speed,
			pace:       pace,
			ratio:      hr / pace,
		})
	}
	return points
}

// analysisWindow drops the warm-up: everything before 5 elapsed minutes.
// Short activities fall back to a distance-based skip so at least some
// window survives.
func analysisWindow(points []enrichedPoint, tun Tunables) []enrichedPoint {
	if len(points) == 0 {
		return nil
	}
	start := points[0].elapsedSec

	var window []enrichedPoint
	for _, p := range points {
		if p.elapsedSec-start >= float64(tun.WarmupSkipSec) {
			window = append(window, p)
		}
	}
	if len(window) >= tun.MinValidPoints {
		return window
	}

	window = window[:0]
	for _, p := range points {
		if p.distKm >= tun.WarmupFallbackKm {
			window = append(window, p)
		}
	}
	return window
}

// collapseDistance finds where pace first degrades past the collapse factor
// times the early baseline. Without a collapse it reports the last distance.
func collapseDistance(window []enrichedPoint, tun Tunables) float64 {
	third := len(window) / 3
	if third < 1 {
		third = 1
	}
	var early []float64
	for _, p := range window[:third] {
		early = append(early, p.pace)
	}
	baseline := mean(early)

	for _, p := range window {
		if p.pace > tun.CollapseFactor*baseline {
			return roundTo(p.distKm, 2)
		}
	}
	return roundTo(window[len(window)-1].distKm, 2)
}

// twoHalfDrift splits the window at the midpoint of elapsed time and
// compares the HR-to-speed ratio of the halves.
func twoHalfDrift(window []enrichedPoint, tun Tunables) *float64 {
	if len(window) < tun.DriftMinPoints {
		return nil
	}

	mid := (window[0].elapsedSec + window[len(window)-1].elapsedSec) / 2
	var hr1, hr2, v1, v2 []float64
	for _, p := range window {
		if p.elapsedSec <= mid {
			hr1 = append(hr1, p.hr)
			v1 = append(v1, p.speed)
		} else {
			hr2 = append(hr2, p.hr)
			v2 = append(v2, p.speed)
		}
	}
	if len(hr1) == 0 || len(hr2) == 0 {
		return nil
	}

	meanV1, meanV2 := mean(v1), mean(v2)
	if meanV1 <= 0 || meanV2 <= 0 {
		return nil
	}
	r1 := mean(hr1) / meanV1
	r2 := mean(hr2) / meanV2
	if r1 <= 0 {
		return nil
	}

	drift := roundTo((r2-r1)/r1*100, 1)
	return &drift
}

// enduranceIndex compares late pace to early pace; above 1 means fading.
func enduranceIndex(window []enrichedPoint) *float64 {
	third := len(window) / 3
	if third < 1 {
		return nil
	}
	var first, last []float64
	for _, p := range window[:third] {
		first = append(first, p.pace)
	}
	for _, p := range window[len(window)-third:] {
		last = append(last, p.pace)
	}
	if mean(first) <= 0 {
		return nil
	}
	idx := roundTo(mean(last)/mean(first), 3)
	return &idx
}

func elevationGain(samples []store.Sample) float64 {
	var gain float64
	var prev float64
	havePrev := false
	for _, s := range samples {
		if s.Altitude == nil {
			continue
		}
		if havePrev && *s.Altitude > prev {
			gain += *s.Altitude - prev
		}
		prev = *s.Altitude
		havePrev = true
	}
	return roundTo(gain, 1)
}

// intensityBands measures time above 90% of the reference max and the share
// spent in the 60-70% band, weighting each sample by the gap to the next.
func intensityBands(samples []store.Sample, refMaxHR float64) (above90 *float64, zone2Band *float64) {
	var totalSec, aboveSec, bandSec float64
	for i, s := range samples {
		if s.Heartrate == nil {
			continue
		}
		delta := 1.0
		if i+1 < len(samples) {
			delta = float64(samples[i+1].TimeOffset - s.TimeOffset)
			if delta <= 0 {
				delta = 1
			}
		}
		totalSec += delta

		frac := float64(*s.Heartrate) / refMaxHR
		if frac > 0.90 {
			aboveSec += delta
		}
		if frac >= 0.60 && frac < 0.70 {
			bandSec += delta
		}
	}
	if totalSec == 0 {
		return nil, nil
	}
	return floatPtr(roundTo(aboveSec, 0)), floatPtr(roundTo(bandSec/totalSec*100, 1))
}
