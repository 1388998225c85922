package fitimport

import (
	"testing"
	"time"

	"github.com/tormoder/fit"
)

func TestConvertSession(t *testing.T) {
	start := time.Date(2026, 4, 12, 8, 30, 0, 0, time.UTC)
	s := &fit.SessionMsg{
		StartTime:      start,
		TotalTimerTime: 2_880_000, // 48 min, scale 1000
		TotalDistance:  800_000,   // 8 km, scale 100
		AvgHeartRate:   152,
		MaxHeartRate:   168,
	}

	a := convertSession(s, "morning_run.fit")
	if a.ID != start.Unix() {
		t.Errorf("id = %d, want %d", a.ID, start.Unix())
	}
	if a.Name != "morning_run" {
		t.Errorf("name = %q", a.Name)
	}
	if a.DistanceM != 8000 || a.DurationSec != 2880 {
		t.Errorf("distance = %v, duration = %v", a.DistanceM, a.DurationSec)
	}
	if a.AvgHeartrate == nil || *a.AvgHeartrate != 152 {
		t.Errorf("avg hr = %v", a.AvgHeartrate)
	}
}

func TestConvertSessionInvalidHeartrate(t *testing.T) {
	s := &fit.SessionMsg{
		StartTime:    time.Now(),
		AvgHeartRate: 0xFF,
		MaxHeartRate: 0,
	}
	a := convertSession(s, "x.fit")
	if a.AvgHeartrate != nil || a.MaxHeartrate != nil {
		t.Errorf("invalid heart rates kept: %v, %v", a.AvgHeartrate, a.MaxHeartrate)
	}
}

func TestConvertRecords(t *testing.T) {
	start := time.Date(2026, 4, 12, 8, 30, 0, 0, time.UTC)
	records := []*fit.RecordMsg{
		{
			Timestamp: start,
			Distance:  0,
			HeartRate: 148,
			Speed:     2778, // 2.778 m/s, scale 1000
			Altitude:  3000, // (3000/5)-500 = 100 m
			Cadence:   85,
		},
		{
			Timestamp: start.Add(10 * time.Second),
			Distance:  2778, // 27.78 m, scale 100
			HeartRate: 0xFF, // dropout
			Speed:     0xFFFF,
			Altitude:  0xFFFF,
			Cadence:   0xFF,
		},
		{
			// pre-start timestamps happen on some watches; dropped
			Timestamp: start.Add(-5 * time.Second),
			HeartRate: 150,
		},
	}

	samples := convertRecords(42, start, records)
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}

	first := samples[0]
	if first.ActivityID != 42 || first.TimeOffset != 0 {
		t.Errorf("first = %+v", first)
	}
	if first.Heartrate == nil || *first.Heartrate != 148 {
		t.Errorf("hr = %v", first.Heartrate)
	}
	if first.Speed == nil || *first.Speed != 2.778 {
		t.Errorf("speed = %v", first.Speed)
	}
	if first.Altitude == nil || *first.Altitude != 100 {
		t.Errorf("altitude = %v", first.Altitude)
	}
	if first.CadenceRaw == nil || *first.CadenceRaw != 85 {
		t.Errorf("cadence = %v", first.CadenceRaw)
	}

	second := samples[1]
	if second.TimeOffset != 10 {
		t.Errorf("offset = %d", second.TimeOffset)
	}
	if second.Heartrate != nil || second.Speed != nil || second.Altitude != nil || second.CadenceRaw != nil {
		t.Errorf("invalid sensor values kept: %+v", second)
	}
	if second.DistanceM == nil || *second.DistanceM != 27.78 {
		t.Errorf("distance = %v", second.DistanceM)
	}
}
