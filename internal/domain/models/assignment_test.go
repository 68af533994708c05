package models

import (
	"math"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		min     int
		wantErr bool
	}{
		{"06:30", 6, 30, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"06:30xyz", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		h, m, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (h != tt.hour || m != tt.min) {
			t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.min)
		}
	}
}

func TestCompletionHours(t *testing.T) {
	a := Assignment{
		DOC:       time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		StartTime: "06:30",
	}

	got, err := a.CompletionHours("14:45")
	if err != nil {
		t.Fatalf("CompletionHours: %v", err)
	}
	if math.Abs(got-8.25) > 1e-9 {
		t.Errorf("CompletionHours = %v, want 8.25", got)
	}

	if _, err := a.CompletionHours("bad"); err == nil {
		t.Error("expected error for malformed end time")
	}
}

func TestCollectionDate(t *testing.T) {
	utc := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := CollectionDate(utc); !got.Equal(want) {
		t.Errorf("CollectionDate(UTC afternoon) = %v, want %v", got, want)
	}

	// The wall-clock day wins even when the UTC instant has rolled over:
	// 18:00 in Los Angeles is 01:00 UTC the next day, but the collection
	// day is still the 28th.
	la := time.FixedZone("PDT", -7*60*60)
	evening := time.Date(2026, 8, 28, 18, 0, 0, 0, la)
	if got := CollectionDate(evening); !got.Equal(want) {
		t.Errorf("CollectionDate(PDT evening) = %v, want %v", got, want)
	}

	// And an early local morning east of UTC stays on its local day.
	tokyo := time.FixedZone("JST", 9*60*60)
	morning := time.Date(2026, 8, 28, 8, 0, 0, 0, tokyo) // 23:00 UTC on the 27th
	if got := CollectionDate(morning); !got.Equal(want) {
		t.Errorf("CollectionDate(JST morning) = %v, want %v", got, want)
	}
}

func TestNormalizeStatusUpdates(t *testing.T) {
	status := "on schedule"
	a := Assignment{StatusUpdates: map[string]*string{
		Checkpoint11AM: &status,
		"2PM":          &status, // unknown, must be dropped
	}}
	a.NormalizeStatusUpdates()

	if len(a.StatusUpdates) != len(CheckpointLabels) {
		t.Fatalf("normalized map has %d keys, want %d", len(a.StatusUpdates), len(CheckpointLabels))
	}
	if v := a.StatusUpdates[Checkpoint11AM]; v == nil || *v != status {
		t.Errorf("11AM value lost during normalize")
	}
	if v := a.StatusUpdates[CheckpointEOD]; v != nil {
		t.Errorf("EOD should be nil, got %v", *v)
	}
	if _, ok := a.StatusUpdates["2PM"]; ok {
		t.Error("unknown key survived normalize")
	}
}
