// internal/app/system/pdfutil/reports.go
//
// Package pdfutil renders the operational reports as PDF. Each renderer
// takes the same flattened rows as the CSV writers in csvutil.
package pdfutil

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ezzdayhq/ezzday/internal/app/system/csvutil"
)

func newReport(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	return pdf
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Arial", "B", 10)
	for i, label := range labels {
		pdf.Cell(widths[i], 8, label)
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteEndOfDay renders the End of Day report.
func WriteEndOfDay(w io.Writer, title string, rows []csvutil.EndOfDayRow) error {
	pdf := newReport(title)

	widths := []float64{24, 30, 30, 18, 18, 18, 52}
	tableHeader(pdf, widths, []string{"Date", "Crew", "Route", "Start", "End", "Hours", "EOD Status"})
	for _, r := range rows {
		pdf.Cell(widths[0], 7, r.Date)
		pdf.Cell(widths[1], 7, r.CrewID)
		pdf.Cell(widths[2], 7, r.RouteID)
		pdf.Cell(widths[3], 7, r.StartTime)
		pdf.Cell(widths[4], 7, r.EndTime)
		pdf.Cell(widths[5], 7, fmt.Sprintf("%.2f", r.CompletionHours))
		pdf.Cell(widths[6], 7, r.StatusEOD)
		pdf.Ln(7)
	}
	if len(rows) == 0 {
		pdf.Cell(0, 8, "No assignments for this date.")
		pdf.Ln(8)
	}

	return pdf.Output(w)
}

// WriteIssues renders the Issue Report. Descriptions wrap across lines.
func WriteIssues(w io.Writer, title string, rows []csvutil.IssueRow) error {
	pdf := newReport(title)

	for _, r := range rows {
		pdf.SetFont("Arial", "B", 11)
		header := r.Address
		if r.RepeatOffender {
			header += "  (repeat offender)"
		}
		pdf.Cell(0, 8, header)
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("%s  |  Crew %s  |  Route %s  |  %s",
			r.DateReported, r.CrewID, r.RouteID, r.IssueType))
		pdf.Ln(6)
		if r.Description != "" {
			pdf.MultiCell(0, 5, r.Description, "", "", false)
		}
		pdf.Ln(4)
	}
	if len(rows) == 0 {
		pdf.Cell(0, 8, "No issues in this period.")
		pdf.Ln(8)
	}

	return pdf.Output(w)
}

// WriteAttendance renders the Attendance Report.
func WriteAttendance(w io.Writer, title string, rows []csvutil.AttendanceRow) error {
	pdf := newReport(title)

	widths := []float64{28, 40, 40, 40, 40}
	tableHeader(pdf, widths, []string{"Date", "Crew", "Route", "Attendance", "PPE"})
	for _, r := range rows {
		pdf.Cell(widths[0], 7, r.Date)
		pdf.Cell(widths[1], 7, r.CrewID)
		pdf.Cell(widths[2], 7, r.RouteID)
		pdf.Cell(widths[3], 7, yesNo(r.AttendanceConfirmed))
		pdf.Cell(widths[4], 7, yesNo(r.PPECompliance))
		pdf.Ln(7)
	}
	if len(rows) == 0 {
		pdf.Cell(0, 8, "No assignments for this date.")
		pdf.Ln(8)
	}

	return pdf.Output(w)
}
