package analysis

import (
	"fmt"

	"runcoach/internal/store"
)

// Zone status labels, worst to best.
const (
	StatusWarning   = "warning"
	StatusGood      = "good"
	StatusExcellent = "excellent"
)

// zoneReserveFracs are the Karvonen boundaries as fractions of HR reserve.
var zoneReserveFracs = [6]float64{0.50, 0.60, 0.70, 0.80, 0.90, 1.00}

// ZoneBounds holds the six Karvonen boundaries in bpm. Zone N spans
// bounds[N-1] to bounds[N].
type ZoneBounds [6]float64

// KarvonenBounds derives zone boundaries from heart-rate reserve.
func KarvonenBounds(p store.Profile) ZoneBounds {
	var bounds ZoneBounds
	reserve := p.Reserve()
	for i, frac := range zoneReserveFracs {
		bounds[i] = p.RestingHR + reserve*frac
	}
	return bounds
}

// TimeInZones distributes the run's duration over the five Karvonen zones,
// weighting each sample by the time gap to the next one. Percentages sum
// to ~100 when HR data exists, all zeros otherwise.
func TimeInZones(samples []store.Sample, profile store.Profile) [5]float64 {
	bounds := KarvonenBounds(profile)

	var zoneSec [5]float64
	var totalSec float64
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

		hr := float64(*s.Heartrate)
		zone := 0
		for z := 4; z >= 1; z-- {
			if hr >= bounds[z] {
				zone = z
				break
			}
		}
		zoneSec[zone] += delta
		totalSec += delta
	}

	// Unrounded so the five shares always sum to 100; display layers format.
	var pct [5]float64
	if totalSec == 0 {
		return pct
	}
	for i := range zoneSec {
		pct[i] = zoneSec[i] / totalSec * 100
	}
	return pct
}

// CardiacReport is the per-run heart-rate assessment.
type CardiacReport struct {
	Status          string
	ZonePct         [5]float64
	Alerts          []string
	Observations    []string
	Recommendations []string
}

// BuildCardiacReport classifies zone distribution and raises alerts on
// sustained maximal effort.
func BuildCardiacReport(samples []store.Sample, profile store.Profile, tun Tunables) CardiacReport {
	report := CardiacReport{
		ZonePct: TimeInZones(samples, profile),
	}

	z2, z4, z5 := report.ZonePct[1], report.ZonePct[3], report.ZonePct[4]
	switch {
	case z5 > tun.Zone5WarningPct:
		report.Status = StatusWarning
	case z4+z5 > tun.HardWarningPct:
		report.Status = StatusWarning
	case z5 < 10 && z2 > tun.Zone2ExcellentPct:
		report.Status = StatusExcellent
	default:
		report.Status = StatusGood
	}

	if z5 > tun.Zone5AlertPct {
		report.Alerts = append(report.Alerts,
			fmt.Sprintf("%.1f%% of the run at maximal intensity (zone 5)", z5))
	}
	if maxHR := ObservedMaxHR(samples); maxHR != nil && *maxHR >= tun.MaxHRAlertFrac*profile.MaxHR {
		report.Alerts = append(report.Alerts,
			fmt.Sprintf("peak heart rate %.0f bpm reached %.0f%% of profile max", *maxHR, *maxHR/profile.MaxHR*100))
	}

	if start, end, ok := firstLastHR(samples); ok && start > 0 && end > tun.EndDriftFactor*start {
		report.Observations = append(report.Observations,
			fmt.Sprintf("heart rate climbed from %.0f to %.0f bpm over the run", start, end))
	}

	if z2 < tun.Zone2ExcellentPct {
		report.Recommendations = append(report.Recommendations,
			"add easy zone-2 volume to build the aerobic base")
	}
	if report.Status == StatusWarning {
		report.Recommendations = append(report.Recommendations,
			"schedule a recovery run before the next hard session")
	}

	return report
}

func firstLastHR(samples []store.Sample) (start, end float64, ok bool) {
	for _, s := range samples {
		if s.Heartrate != nil {
			start = float64(*s.Heartrate)
			ok = true
			break
		}
	}
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Heartrate != nil {
			end = float64(*samples[i].Heartrate)
			break
		}
	}
	return start, end, ok
}
