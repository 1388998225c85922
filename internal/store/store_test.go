package store

import (
	"errors"
	"testing"
	"time"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestActivityRoundTrip(t *testing.T) {
	db := OpenTest(t)

	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	a := &Activity{
		ID:           42,
		Name:         "Morning Run",
		StartDate:    start,
		Category:     CategoryMidDistance,
		DistanceM:    8500,
		DurationSec:  2700,
		AvgHeartrate: floatPtr(152),
		MaxHeartrate: floatPtr(178),
	}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetActivity(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Morning Run" || got.Category != CategoryMidDistance {
		t.Errorf("got %q/%q", got.Name, got.Category)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("start date = %v, want %v", got.StartDate, start)
	}
	if got.AvgHeartrate == nil || *got.AvgHeartrate != 152 {
		t.Errorf("avg HR = %v", got.AvgHeartrate)
	}

	// Upsert with same ID should update, not duplicate
	a.Name = "Renamed"
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	count, err := db.CountActivities()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetActivityNotFound(t *testing.T) {
	db := OpenTest(t)
	_, err := db.GetActivity(999)
	if !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("err = %v, want ErrActivityNotFound", err)
	}
}

func TestSamplesRoundTrip(t *testing.T) {
	db := OpenTest(t)

	a := &Activity{ID: 1, Name: "Run", StartDate: time.Now().UTC(), DistanceM: 5000, DurationSec: 1500}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	samples := []Sample{
		{ActivityID: 1, TimeOffset: 0, DistanceM: floatPtr(0), Heartrate: intPtr(110), Speed: floatPtr(3.0), CadenceRaw: intPtr(85)},
		{ActivityID: 1, TimeOffset: 5, DistanceM: floatPtr(15), Heartrate: intPtr(120), Speed: floatPtr(3.1), CadenceRaw: intPtr(86)},
	}
	if err := db.SaveSamples(1, samples); err != nil {
		t.Fatalf("save samples: %v", err)
	}

	got, err := db.GetSamples(1)
	if err != nil {
		t.Fatalf("get samples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Heartrate == nil || *got[1].Heartrate != 120 {
		t.Errorf("hr = %v", got[1].Heartrate)
	}
	if got[0].CadenceSPM != nil {
		t.Errorf("cadence_spm should start nil")
	}

	activity, err := db.GetActivity(1)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if !activity.SamplesSynced {
		t.Error("samples_synced not set")
	}

	// Saving again replaces the stream
	if err := db.SaveSamples(1, samples[:1]); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, err = db.GetSamples(1)
	if err != nil {
		t.Fatalf("get samples: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len after resave = %d, want 1", len(got))
	}
}

func TestUpdateSampleCadence(t *testing.T) {
	db := OpenTest(t)

	a := &Activity{ID: 7, Name: "Run", StartDate: time.Now().UTC(), DistanceM: 3000, DurationSec: 1000}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	samples := []Sample{
		{ActivityID: 7, TimeOffset: 0, CadenceRaw: intPtr(85)},
		{ActivityID: 7, TimeOffset: 5, CadenceRaw: intPtr(87)},
	}
	if err := db.SaveSamples(7, samples); err != nil {
		t.Fatalf("save: %v", err)
	}

	samples[0].CadenceSPM = floatPtr(170)
	samples[1].CadenceSPM = floatPtr(174)
	if err := db.UpdateSampleCadence(7, samples); err != nil {
		t.Fatalf("update cadence: %v", err)
	}

	got, err := db.GetSamples(7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[0].CadenceSPM == nil || *got[0].CadenceSPM != 170 {
		t.Errorf("cadence_spm = %v", got[0].CadenceSPM)
	}
	if got[0].CadenceRaw == nil || *got[0].CadenceRaw != 85 {
		t.Errorf("cadence_raw should be untouched, got %v", got[0].CadenceRaw)
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	db := OpenTest(t)

	a := &Activity{ID: 3, Name: "Run", StartDate: time.Now().UTC(), DistanceM: 10000, DurationSec: 3300}
	if err := db.UpsertActivity(a); err != nil {
		t.Fatalf("upsert activity: %v", err)
	}

	m := &ActivityMetrics{
		ActivityID:       3,
		EfficiencyFactor: floatPtr(6.532),
		CardiacDriftPct:  floatPtr(4.2),
		ElevationGainM:   85,
		ZonePct:          [5]float64{10, 55, 25, 8, 2},
		EfficiencyTrend:  1,
	}
	if err := db.UpsertMetrics(m); err != nil {
		t.Fatalf("upsert metrics: %v", err)
	}

	got, err := db.GetMetrics(3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("metrics missing")
	}
	if *got.EfficiencyFactor != 6.532 || *got.CardiacDriftPct != 4.2 {
		t.Errorf("got ef=%v drift=%v", *got.EfficiencyFactor, *got.CardiacDriftPct)
	}
	if got.ZonePct[1] != 55 {
		t.Errorf("zone2 = %v", got.ZonePct[1])
	}
	if got.DriftSlope != nil {
		t.Error("drift slope should be nil")
	}
	if got.EfficiencyTrend != 1 {
		t.Errorf("trend = %d", got.EfficiencyTrend)
	}

	missing, err := db.GetMetrics(999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil metrics for unknown activity")
	}
}

func TestProfileSingleton(t *testing.T) {
	db := OpenTest(t)

	if _, err := db.GetProfile(); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("err = %v, want ErrNoProfile", err)
	}

	p := &Profile{
		RestingHR: 48,
		MaxHR:     188,
		BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetProfile()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaxHR != 188 || got.RestingHR != 48 {
		t.Errorf("got max=%v rest=%v", got.MaxHR, got.RestingHR)
	}
	if got.Reserve() != 140 {
		t.Errorf("reserve = %v", got.Reserve())
	}

	if err := db.UpdateLTHR(165); err != nil {
		t.Fatalf("update lthr: %v", err)
	}
	got, err = db.GetProfile()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LTHR == nil || *got.LTHR != 165 {
		t.Errorf("lthr = %v", got.LTHR)
	}
}

func TestTargetsAndChangelog(t *testing.T) {
	db := OpenTest(t)

	targets := []PersonalizedTarget{
		{Category: CategoryLongRun, EfficiencyTarget: 6.1, DriftTarget: 4.0, ReferenceMaxHR: 188, SampleSize: 8},
		{Category: CategoryRecoveryShort, EfficiencyTarget: 5.2, DriftTarget: 3.0, ReferenceMaxHR: 188, SampleSize: 0, TheoryOnly: true},
	}
	for i := range targets {
		if err := db.UpsertTarget(&targets[i]); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	list, err := db.ListTargets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// Display order puts recovery-short first
	if list[0].Category != CategoryRecoveryShort {
		t.Errorf("first = %s", list[0].Category)
	}
	if !list[0].TheoryOnly {
		t.Error("theory_only lost")
	}

	got, err := db.GetTarget(CategoryLongRun)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.EfficiencyTarget != 6.1 {
		t.Errorf("got %+v", got)
	}

	if err := db.AppendChangelog("tightened", "long-run efficiency 6.1 -> 6.4"); err != nil {
		t.Fatalf("changelog: %v", err)
	}
	entries, err := db.ListChangelog(10)
	if err != nil {
		t.Fatalf("list changelog: %v", err)
	}
	if len(entries) != 1 || entries[0].Reason != "tightened" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestWeeklyScoreCap(t *testing.T) {
	db := OpenTest(t)

	for week := 1; week <= 15; week++ {
		r := &WeeklyScoreRecord{
			WeekNumber: week,
			Score:      7.5,
			Volume:     2.0, Adherence: 1.5, TypeMatch: 1.5, Quality: 2.0, Regularity: 0.5,
			Trend: "stable",
		}
		if err := db.SaveWeeklyScore(r); err != nil {
			t.Fatalf("save week %d: %v", week, err)
		}
	}

	records, err := db.ListWeeklyScores()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 12 {
		t.Fatalf("len = %d, want 12", len(records))
	}
	if records[0].WeekNumber != 15 || records[11].WeekNumber != 4 {
		t.Errorf("range = %d..%d, want 15..4", records[0].WeekNumber, records[11].WeekNumber)
	}
}

func TestAuthRoundTrip(t *testing.T) {
	db := OpenTest(t)

	if _, err := db.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("err = %v, want ErrNoAuth", err)
	}

	a := &Auth{
		AthleteID:    12345,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(6 * time.Hour).Truncate(time.Second),
	}
	if err := db.SaveAuth(a); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetAuth()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AthleteID != 12345 || got.AccessToken != "access" {
		t.Errorf("got %+v", got)
	}
	if !got.ExpiresAt.Equal(a.ExpiresAt) {
		t.Errorf("expires = %v, want %v", got.ExpiresAt, a.ExpiresAt)
	}
}

func TestSyncState(t *testing.T) {
	db := OpenTest(t)

	v, err := db.GetSyncState("last_sync")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "" {
		t.Errorf("unset value = %q", v)
	}

	if err := db.SetSyncState("last_sync", "2026-03-14T07:30:00Z"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetSyncState("last_sync", "2026-03-15T07:30:00Z"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err = db.GetSyncState("last_sync")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "2026-03-15T07:30:00Z" {
		t.Errorf("value = %q", v)
	}
}

func TestFeedbackNotes(t *testing.T) {
	db := OpenTest(t)

	for _, id := range []int64{1, 2} {
		a := &Activity{
			ID:          id,
			Name:        "Run",
			StartDate:   time.Date(2026, 3, 10+int(id), 7, 0, 0, 0, time.UTC),
			Category:    CategoryRecoveryShort,
			DistanceM:   5000,
			DurationSec: 1800,
		}
		if err := db.UpsertActivity(a); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}

	if err := db.SaveFeedback(1, "easy spin"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveFeedback(1, "easy spin, sore calf"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	notes, err := db.GetFeedbackForActivities([]int64{1, 2})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if notes[1] != "easy spin, sore calf" {
		t.Errorf("note = %q", notes[1])
	}
	if _, ok := notes[2]; ok {
		t.Errorf("unexpected note for activity 2: %q", notes[2])
	}

	if err := db.SaveFeedback(1, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	notes, err = db.GetFeedbackForActivities([]int64{1})
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes after clear = %v", notes)
	}
}
