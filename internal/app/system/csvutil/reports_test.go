package csvutil

import (
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriteEndOfDay(t *testing.T) {
	rows := []EndOfDayRow{
		{
			Date:            "2026-08-28",
			CrewID:          "crew-1",
			RouteID:         "route-7",
			StartTime:       "06:30",
			EndTime:         "14:45",
			CompletionHours: 8.25,
			Status11AM:      "on schedule",
			StatusEOD:       "complete",
		},
	}

	var sb strings.Builder
	if err := WriteEndOfDay(&sb, rows); err != nil {
		t.Fatalf("WriteEndOfDay: %v", err)
	}

	recs, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(recs))
	}
	if recs[0][0] != "Date" || recs[0][5] != "Completion Hours" {
		t.Errorf("unexpected header: %v", recs[0])
	}
	if recs[1][5] != "8.25" {
		t.Errorf("completion hours = %q, want 8.25", recs[1][5])
	}
	if recs[1][6] != "on schedule" || recs[1][7] != "" {
		t.Errorf("status columns = %v", recs[1][6:])
	}
}

func TestWriteIssues_QuotesCommas(t *testing.T) {
	rows := []IssueRow{
		{
			DateReported:   "2026-08-27",
			CrewID:         "crew-2",
			RouteID:        "route-3",
			Address:        "123 Test Street, Unit B",
			IssueType:      "Blocked Access",
			Description:    "dumpster behind parked car",
			RepeatOffender: true,
		},
	}

	var sb strings.Builder
	if err := WriteIssues(&sb, rows); err != nil {
		t.Fatalf("WriteIssues: %v", err)
	}

	recs, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if recs[1][3] != "123 Test Street, Unit B" {
		t.Errorf("address round-trip = %q", recs[1][3])
	}
	if recs[1][6] != "Yes" {
		t.Errorf("repeat offender = %q, want Yes", recs[1][6])
	}
}

func TestWriteAttendance_Empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteAttendance(&sb, nil); err != nil {
		t.Fatalf("WriteAttendance: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty report should be header only, got %d lines", len(lines))
	}
}
