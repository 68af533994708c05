// internal/app/system/mailer/templates.go
package mailer

import (
	"fmt"

	"github.com/ezzdayhq/ezzday/internal/app/system/htmlsanitize"
)

// AttendanceAlertData identifies the assignment behind an attendance/PPE
// escalation.
type AttendanceAlertData struct {
	CrewID       string
	AssignmentID string
}

// BuildAttendanceMissingEmail creates the 8 AM attendance/PPE escalation.
// The recipient is set by the caller during fan-out.
func BuildAttendanceMissingEmail(data AttendanceAlertData) Email {
	return Email{
		Subject: "Attendance/PPE Compliance Missing",
		TextBody: fmt.Sprintf(
			"Crew ID: %s for Assignment ID: %s has not confirmed attendance or PPE compliance by 8 AM. Please follow up immediately.",
			data.CrewID, data.AssignmentID),
	}
}

// StatusAlertData identifies the assignment and checkpoint behind a missing
// status escalation.
type StatusAlertData struct {
	CrewID       string
	AssignmentID string
	Checkpoint   string
}

// BuildStatusMissingEmail creates the missed-checkpoint escalation.
func BuildStatusMissingEmail(data StatusAlertData) Email {
	return Email{
		Subject: "Status Update Missing",
		TextBody: fmt.Sprintf(
			"Status update missing for Crew ID: %s on Assignment ID: %s at checkpoint: %s. Please follow up.",
			data.CrewID, data.AssignmentID, data.Checkpoint),
	}
}

// BuildRepeatOffenderEmail creates the notification for one address that
// crossed the repeat-offender threshold.
func BuildRepeatOffenderEmail(address string) Email {
	return Email{
		Subject: "Repeat Offender Notification",
		TextBody: fmt.Sprintf("The address %s has been marked as a repeat offender.",
			htmlsanitize.StripTags(address)),
	}
}

// BuildRouteDelayedEmail creates the escalation for a route reported
// delayed over the live progress channel. Location is operator free text.
func BuildRouteDelayedEmail(routeID, location string) Email {
	return Email{
		Subject: fmt.Sprintf("Route %s Delayed Alert", routeID),
		TextBody: fmt.Sprintf(
			"Route %s has been reported as delayed at location: %s. Please investigate.",
			routeID, htmlsanitize.StripTags(location)),
	}
}

// BuildIssueReportedEmail creates the escalation for an issue reported
// during a route.
func BuildIssueReportedEmail(routeID, location string) Email {
	return Email{
		Subject: fmt.Sprintf("Issue Reported on Route %s", routeID),
		TextBody: fmt.Sprintf(
			"An issue has been reported on Route %s at location: %s. Please review and take necessary actions.",
			routeID, htmlsanitize.StripTags(location)),
	}
}
