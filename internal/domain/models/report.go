// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report types the reports feature can generate.
const (
	ReportEndOfDay   = "End of Day"
	ReportIssues     = "Issue Report"
	ReportAttendance = "Attendance Report"
)

// Report records one generated report artifact: what was asked for, when,
// and the file name it was served under.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportType  string             `bson:"report_type" json:"report_type"`
	Format      string             `bson:"format" json:"format"` // csv | pdf
	Parameters  map[string]string  `bson:"parameters,omitempty" json:"parameters,omitempty"`
	FileName    string             `bson:"file_name" json:"file_name"`
	GeneratedAt time.Time          `bson:"generated_at" json:"generated_at"`
}
