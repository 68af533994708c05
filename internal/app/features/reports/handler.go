// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	assignmentstore "github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	issuestore "github.com/ezzdayhq/ezzday/internal/app/store/issues"
	reportstore "github.com/ezzdayhq/ezzday/internal/app/store/reports"
	"github.com/ezzdayhq/ezzday/internal/app/system/csvutil"
	"github.com/ezzdayhq/ezzday/internal/app/system/pdfutil"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// issueListCap bounds how many issues one report pulls.
const issueListCap = 10000

// Handler generates the operational reports in CSV or PDF form and
// records each generated report's metadata.
type Handler struct {
	Assignments *assignmentstore.Store
	Issues      *issuestore.Store
	Reports     *reportstore.Store
	Log         *zap.Logger
}

// NewHandler creates a reports handler.
func NewHandler(assignments *assignmentstore.Store, issues *issuestore.Store, reports *reportstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Assignments: assignments, Issues: issues, Reports: reports, Log: logger}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func endOfDayRows(list []models.Assignment) []csvutil.EndOfDayRow {
	rows := make([]csvutil.EndOfDayRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, csvutil.EndOfDayRow{
			Date:            a.DOC.Format("2006-01-02"),
			CrewID:          a.CrewID.Hex(),
			RouteID:         a.RouteID.Hex(),
			StartTime:       a.StartTime,
			EndTime:         deref(a.EndTime),
			CompletionHours: a.CompletionTime,
			Status11AM:      deref(a.StatusUpdates[models.Checkpoint11AM]),
			Status1PM:       deref(a.StatusUpdates[models.Checkpoint1PM]),
			Status3PM:       deref(a.StatusUpdates[models.Checkpoint3PM]),
			StatusEOD:       deref(a.StatusUpdates[models.CheckpointEOD]),
		})
	}
	return rows
}

func issueRows(list []models.Issue) []csvutil.IssueRow {
	rows := make([]csvutil.IssueRow, 0, len(list))
	for _, i := range list {
		rows = append(rows, csvutil.IssueRow{
			DateReported:   i.DateReported.Format("2006-01-02"),
			CrewID:         i.CrewID.Hex(),
			RouteID:        i.RouteID.Hex(),
			Address:        i.Address,
			IssueType:      i.IssueType,
			Description:    i.Description,
			RepeatOffender: i.RepeatOffender,
		})
	}
	return rows
}

func attendanceRows(list []models.Assignment) []csvutil.AttendanceRow {
	rows := make([]csvutil.AttendanceRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, csvutil.AttendanceRow{
			Date:                a.DOC.Format("2006-01-02"),
			CrewID:              a.CrewID.Hex(),
			RouteID:             a.RouteID.Hex(),
			AttendanceConfirmed: a.AttendanceConfirmed,
			PPECompliance:       a.PPECompliance,
		})
	}
	return rows
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func dateParam(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

// rangeParams reads ?from= and ?to=, defaulting to the last 30 days.
func rangeParams(r *http.Request) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from, to = now.AddDate(0, 0, -30), now.AddDate(0, 0, 1)
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// send writes the report in the requested format, then records its
// metadata. Recording failures are logged, not surfaced; the download
// already succeeded.
func (h *Handler) send(w http.ResponseWriter, ctx context.Context, reportType, format string, params map[string]string, write func(name string) error) {
	name := fmt.Sprintf("%s-%s.%s", uuid.NewString(), time.Now().UTC().Format("20060102"), format)

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(name)))

	if err := write(name); err != nil {
		h.Log.Error("report write failed",
			zap.String("report_type", reportType),
			zap.String("format", format),
			zap.Error(err))
		return
	}

	_, err := h.Reports.Record(ctx, models.Report{
		ReportType: reportType,
		Format:     format,
		Parameters: params,
		FileName:   name,
	})
	if err != nil {
		h.Log.Warn("report metadata record failed",
			zap.String("report_type", reportType),
			zap.Error(err))
	}
}

// ServeEndOfDay handles GET /api/reports/end-of-day.{format}?date=.
func (h *Handler) ServeEndOfDay(w http.ResponseWriter, r *http.Request, format string) {
	date, err := dateParam(r)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	list, err := h.Assignments.ForDate(ctx, date)
	if err != nil {
		h.Log.Error("end of day report query failed", zap.Error(err))
		http.Error(w, "could not build report", http.StatusInternalServerError)
		return
	}
	rows := endOfDayRows(list)

	params := map[string]string{"date": date.Format("2006-01-02")}
	h.send(w, ctx, models.ReportEndOfDay, format, params, func(string) error {
		if format == "pdf" {
			title := "End of Day Report " + date.Format("2006-01-02")
			return pdfutil.WriteEndOfDay(w, title, rows)
		}
		return csvutil.WriteEndOfDay(w, rows)
	})
}

// ServeIssues handles GET /api/reports/issues.{format}?from=&to=.
func (h *Handler) ServeIssues(w http.ResponseWriter, r *http.Request, format string) {
	from, to, err := rangeParams(r)
	if err != nil {
		http.Error(w, "invalid from/to, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	list, err := h.Issues.List(ctx, from, to, issueListCap)
	if err != nil {
		h.Log.Error("issue report query failed", zap.Error(err))
		http.Error(w, "could not build report", http.StatusInternalServerError)
		return
	}
	rows := issueRows(list)

	params := map[string]string{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	}
	h.send(w, ctx, models.ReportIssues, format, params, func(string) error {
		if format == "pdf" {
			return pdfutil.WriteIssues(w, "Issue Report", rows)
		}
		return csvutil.WriteIssues(w, rows)
	})
}

// ServeAttendance handles GET /api/reports/attendance.{format}?date=.
func (h *Handler) ServeAttendance(w http.ResponseWriter, r *http.Request, format string) {
	date, err := dateParam(r)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	list, err := h.Assignments.ForDate(ctx, date)
	if err != nil {
		h.Log.Error("attendance report query failed", zap.Error(err))
		http.Error(w, "could not build report", http.StatusInternalServerError)
		return
	}
	rows := attendanceRows(list)

	params := map[string]string{"date": date.Format("2006-01-02")}
	h.send(w, ctx, models.ReportAttendance, format, params, func(string) error {
		if format == "pdf" {
			title := "Attendance Report " + date.Format("2006-01-02")
			return pdfutil.WriteAttendance(w, title, rows)
		}
		return csvutil.WriteAttendance(w, rows)
	})
}

// ServeRecent handles GET /api/reports and lists recently generated
// report metadata.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Reports.ListRecent(ctx, 50)
	if err != nil {
		h.Log.Error("list reports failed", zap.Error(err))
		http.Error(w, "could not list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
