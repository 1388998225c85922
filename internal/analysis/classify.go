package analysis

import "runcoach/internal/store"

// Classify derives the run category from distance and overall pace.
// Re-derivation is always a full replace, never a partial patch: callers
// must store the result even when it matches the existing tag.
func Classify(a store.Activity, tun Tunables) string {
	distKm := a.DistanceKm()
	if distKm <= 0 {
		return store.CategoryUnknown
	}

	switch {
	case distKm > tun.LongRunKm:
		return store.CategoryLongRun
	case distKm >= tun.MidDistanceKm:
		return store.CategoryMidDistance
	}

	if a.DurationSec <= 0 {
		return store.CategoryRecoveryShort
	}
	paceMinKm := a.DurationMin() / distKm
	if paceMinKm <= tun.FastShortPace {
		return store.CategoryFastShort
	}
	return store.CategoryRecoveryShort
}
