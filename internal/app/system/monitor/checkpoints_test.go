package monitor

import (
	"testing"
	"time"
)

func TestAt(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 8, 28, h, m, 30, 0, time.UTC)
	}

	tests := []struct {
		now       time.Time
		wantLabel string
		wantKind  CheckpointKind
		wantOK    bool
	}{
		{day(8, 0), "", KindAttendance, true},
		{day(11, 0), "11AM", KindStatus, true},
		{day(13, 0), "1PM", KindStatus, true},
		{day(15, 0), "3PM", KindStatus, true},
		{day(18, 0), "EOD", KindStatus, true},
		{day(11, 1), "", 0, false},
		{day(10, 59), "", 0, false},
		{day(12, 0), "", 0, false},
	}
	for _, tt := range tests {
		cp, ok := At(tt.now)
		if ok != tt.wantOK {
			t.Errorf("At(%v) ok = %v, want %v", tt.now, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if cp.Label != tt.wantLabel || cp.Kind != tt.wantKind {
			t.Errorf("At(%v) = {%q %v}, want {%q %v}", tt.now, cp.Label, cp.Kind, tt.wantLabel, tt.wantKind)
		}
	}
}

func TestNext(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 8, 28, h, m, 0, 0, time.UTC)
	}

	// Mid-morning rolls to 11 AM.
	cp, at := Next(day(9, 30))
	if cp.Label != "11AM" || !at.Equal(day(11, 0)) {
		t.Errorf("Next(09:30) = %q at %v", cp.Label, at)
	}

	// Exactly on a checkpoint moves strictly past it.
	cp, at = Next(day(11, 0))
	if cp.Label != "1PM" || !at.Equal(day(13, 0)) {
		t.Errorf("Next(11:00) = %q at %v", cp.Label, at)
	}

	// After the last checkpoint rolls over to tomorrow's attendance gate.
	cp, at = Next(day(19, 0))
	want := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	if cp.Kind != KindAttendance || !at.Equal(want) {
		t.Errorf("Next(19:00) = kind %v at %v, want attendance at %v", cp.Kind, at, want)
	}
}

func TestNext_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, loc)
	_, at := Next(now)
	if at.Location() != loc {
		t.Errorf("Next returned location %v, want %v", at.Location(), loc)
	}
	if at.Hour() != 11 {
		t.Errorf("Next fired at local hour %d, want 11", at.Hour())
	}
}
