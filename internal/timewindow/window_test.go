package timewindow

import (
	"testing"
	"time"
)

const istOffsetMinutes = 330

func TestStartOfTodayConvertsISTMidnightToUTC(t *testing.T) {
	// 2026-03-10 10:00 UTC is 15:30 IST, so IST midnight is
	// 2026-03-09 18:30 UTC.
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	got := StartOfToday(istOffsetMinutes, now)
	want := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfToday = %v, want %v", got, want)
	}
}

func TestStartOfTodayIdempotentWithinDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)  // 06:30 IST
	evening := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC) // 22:30 IST
	if !StartOfToday(istOffsetMinutes, morning).Equal(StartOfToday(istOffsetMinutes, evening)) {
		t.Fatal("window start should not change within the same local day")
	}
}

func TestStartOfTodayAdvances24hAcrossDayBoundary(t *testing.T) {
	before := time.Date(2026, 3, 10, 18, 29, 59, 0, time.UTC) // 23:59:59 IST
	after := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)   // 00:00:00 IST next day
	delta := StartOfToday(istOffsetMinutes, after).Sub(StartOfToday(istOffsetMinutes, before))
	if delta != WindowLength {
		t.Fatalf("window start advanced by %v, want %v", delta, WindowLength)
	}
}

func TestStartOfTodayNegativeOffset(t *testing.T) {
	// UTC-7: 2026-03-10 02:00 UTC is 2026-03-09 19:00 local, so local
	// midnight is 2026-03-09 07:00 UTC.
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	got := StartOfToday(-420, now)
	want := time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfToday = %v, want %v", got, want)
	}
}

func TestWithinBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	cases := []struct {
		name        string
		publishedAt time.Time
		want        bool
	}{
		{"at window start", start, true},
		{"just before start", start.Add(-time.Nanosecond), false},
		{"mid window", start.Add(12 * time.Hour), true},
		{"just before end", start.Add(WindowLength - time.Nanosecond), true},
		{"at window end", start.Add(WindowLength), false},
	}
	for _, tc := range cases {
		if got := Within(tc.publishedAt, start); got != tc.want {
			t.Errorf("%s: Within = %v, want %v", tc.name, got, tc.want)
		}
	}
}
