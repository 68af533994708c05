package pdfutil

import (
	"bytes"
	"testing"

	"github.com/ezzdayhq/ezzday/internal/app/system/csvutil"
)

func TestWriteEndOfDay_ProducesPDF(t *testing.T) {
	rows := []csvutil.EndOfDayRow{
		{Date: "2026-08-28", CrewID: "crew-1", RouteID: "route-7",
			StartTime: "06:30", EndTime: "14:45", CompletionHours: 8.25, StatusEOD: "complete"},
	}

	var buf bytes.Buffer
	if err := WriteEndOfDay(&buf, "End of Day", rows); err != nil {
		t.Fatalf("WriteEndOfDay: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestWriteIssues_EmptyStillRenders(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIssues(&buf, "Issue Report", nil); err != nil {
		t.Fatalf("WriteIssues: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty report produced no bytes")
	}
}

func TestWriteAttendance_ProducesPDF(t *testing.T) {
	rows := []csvutil.AttendanceRow{
		{Date: "2026-08-28", CrewID: "crew-1", RouteID: "route-7",
			AttendanceConfirmed: true, PPECompliance: false},
	}

	var buf bytes.Buffer
	if err := WriteAttendance(&buf, "Attendance Report", rows); err != nil {
		t.Fatalf("WriteAttendance: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}
