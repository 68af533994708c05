// internal/app/system/csvutil/reports.go
//
// Package csvutil builds the operational CSV exports. It also declares
// the flattened row types the PDF renderers share, so both formats of a
// report are produced from one projection of the stored data.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// EndOfDayRow is one assignment in the End of Day report.
type EndOfDayRow struct {
	Date            string
	CrewID          string
	RouteID         string
	StartTime       string
	EndTime         string // empty when not completed
	CompletionHours float64
	Status11AM      string
	Status1PM       string
	Status3PM       string
	StatusEOD       string
}

// IssueRow is one issue in the Issue Report.
type IssueRow struct {
	DateReported   string
	CrewID         string
	RouteID        string
	Address        string
	IssueType      string
	Description    string
	RepeatOffender bool
}

// AttendanceRow is one assignment in the Attendance Report.
type AttendanceRow struct {
	Date                string
	CrewID              string
	RouteID             string
	AttendanceConfirmed bool
	PPECompliance       bool
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteEndOfDay writes the End of Day report as CSV.
func WriteEndOfDay(w io.Writer, rows []EndOfDayRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Date", "Crew ID", "Route ID", "Start Time", "End Time",
		"Completion Hours", "11AM Status", "1PM Status", "3PM Status", "EOD Status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write end of day header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Date, r.CrewID, r.RouteID, r.StartTime, r.EndTime,
			strconv.FormatFloat(r.CompletionHours, 'f', 2, 64),
			r.Status11AM, r.Status1PM, r.Status3PM, r.StatusEOD,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write end of day row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIssues writes the Issue Report as CSV.
func WriteIssues(w io.Writer, rows []IssueRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Date Reported", "Crew ID", "Route ID", "Address",
		"Issue Type", "Description", "Repeat Offender"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write issue header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.DateReported, r.CrewID, r.RouteID, r.Address,
			r.IssueType, r.Description, yesNo(r.RepeatOffender),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write issue row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAttendance writes the Attendance Report as CSV.
func WriteAttendance(w io.Writer, rows []AttendanceRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Date", "Crew ID", "Route ID", "Attendance Confirmed", "PPE Compliance"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write attendance header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Date, r.CrewID, r.RouteID,
			yesNo(r.AttendanceConfirmed), yesNo(r.PPECompliance)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write attendance row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
