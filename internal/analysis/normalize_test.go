package analysis

import (
	"testing"

	"runcoach/internal/store"
)

func cadenceStream(raws []int) []store.Sample {
	samples := make([]store.Sample, len(raws))
	for i, r := range raws {
		samples[i] = store.Sample{TimeOffset: i * 5}
		if r > 0 {
			raw := r
			samples[i].CadenceRaw = &raw
		}
	}
	return samples
}

func TestNormalizeCadence(t *testing.T) {
	tun := DefaultTunables()

	t.Run("no cadence data", func(t *testing.T) {
		samples := cadenceStream([]int{0, 0, 0})
		meta := NormalizeCadence(samples, tun)
		if meta.Present || meta.Normalized {
			t.Errorf("meta = %+v, want absent", meta)
		}
	})

	t.Run("one-foot sensor doubles", func(t *testing.T) {
		samples := cadenceStream([]int{85, 86, 87, 88})
		meta := NormalizeCadence(samples, tun)
		if !meta.OneFoot || !meta.Normalized {
			t.Fatalf("meta = %+v, want one-foot normalized", meta)
		}
		if samples[0].CadenceSPM == nil || *samples[0].CadenceSPM != 170 {
			t.Errorf("spm = %v, want 170", samples[0].CadenceSPM)
		}
		if meta.CoveragePct != 100 {
			t.Errorf("coverage = %v, want 100", meta.CoveragePct)
		}
	})

	t.Run("full cadence passes through", func(t *testing.T) {
		samples := cadenceStream([]int{170, 172, 168, 174})
		meta := NormalizeCadence(samples, tun)
		if meta.OneFoot {
			t.Error("full cadence flagged as one-foot")
		}
		if *samples[1].CadenceSPM != 172 {
			t.Errorf("spm = %v, want 172", *samples[1].CadenceSPM)
		}
	})

	t.Run("idempotent on normalized streams", func(t *testing.T) {
		samples := cadenceStream([]int{85, 86, 87, 88})
		NormalizeCadence(samples, tun)
		first := *samples[0].CadenceSPM

		meta := NormalizeCadence(samples, tun)
		if meta.Normalized {
			t.Error("second pass should not rewrite")
		}
		if *samples[0].CadenceSPM != first {
			t.Errorf("spm changed: %v -> %v", first, *samples[0].CadenceSPM)
		}
	})

	t.Run("partial coverage", func(t *testing.T) {
		samples := cadenceStream([]int{170, 0, 168, 0})
		meta := NormalizeCadence(samples, tun)
		if meta.CoveragePct != 50 {
			t.Errorf("coverage = %v, want 50", meta.CoveragePct)
		}
	})
}

func TestComputeCadenceKPIs(t *testing.T) {
	tun := DefaultTunables()

	t.Run("too few samples", func(t *testing.T) {
		samples := cadenceStream([]int{170, 171, 172})
		NormalizeCadence(samples, tun)
		kpis := ComputeCadenceKPIs(samples, tun)
		if kpis.MeanSPM != nil {
			t.Errorf("mean = %v, want nil", kpis.MeanSPM)
		}
	})

	t.Run("steady cadence", func(t *testing.T) {
		raws := make([]int, 30)
		for i := range raws {
			raws[i] = 170
		}
		samples := cadenceStream(raws)
		NormalizeCadence(samples, tun)
		kpis := ComputeCadenceKPIs(samples, tun)
		if kpis.MeanSPM == nil || *kpis.MeanSPM != 170 {
			t.Errorf("mean = %v, want 170", kpis.MeanSPM)
		}
		if kpis.CVPct == nil || *kpis.CVPct != 0 {
			t.Errorf("cv = %v, want 0", kpis.CVPct)
		}
		if kpis.DriftSPMPerHr == nil || *kpis.DriftSPMPerHr != 0 {
			t.Errorf("drift = %v, want 0", kpis.DriftSPMPerHr)
		}
	})
}
