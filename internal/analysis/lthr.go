package analysis

import "runcoach/internal/store"

// LTHREstimate approximates lactate-threshold heart rate from the mean HR
// of recent longer runs.
type LTHREstimate struct {
	LTHR       float64
	ReservePct float64 // position within heart-rate reserve
	Zone       int     // Karvonen zone containing the estimate
	SampleSize int
}

// EstimateLTHR averages the mean heart rate of the most recent qualifying
// runs (at least 7 km with HR data). activities must be ordered most recent
// first. Returns nil when too few qualify.
func EstimateLTHR(activities []store.Activity, profile store.Profile, tun Tunables) *LTHREstimate {
	var hrs []float64
	for _, a := range activities {
		if a.DistanceKm() < tun.LTHRMinKm || a.AvgHeartrate == nil || *a.AvgHeartrate <= 0 {
			continue
		}
		hrs = append(hrs, *a.AvgHeartrate)
		if len(hrs) == tun.LTHRWindow {
			break
		}
	}
	if len(hrs) < tun.LTHRMinSamples {
		return nil
	}

	lthr := roundTo(mean(hrs), 1)
	est := &LTHREstimate{LTHR: lthr, SampleSize: len(hrs)}

	if reserve := profile.Reserve(); reserve > 0 {
		est.ReservePct = roundTo((lthr-profile.RestingHR)/reserve*100, 1)
	}

	bounds := KarvonenBounds(profile)
	est.Zone = 1
	for z := 4; z >= 1; z-- {
		if lthr >= bounds[z] {
			est.Zone = z + 1
			break
		}
	}
	return est
}
