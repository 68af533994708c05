package mailer

import (
	"strings"
	"testing"
)

func TestBuildAttendanceMissingEmail(t *testing.T) {
	msg := BuildAttendanceMissingEmail(AttendanceAlertData{
		CrewID:       "crew-42",
		AssignmentID: "asg-7",
	})
	if msg.Subject != "Attendance/PPE Compliance Missing" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "crew-42") || !strings.Contains(msg.TextBody, "asg-7") {
		t.Errorf("body does not name crew and assignment: %q", msg.TextBody)
	}
	if msg.To != "" {
		t.Error("template must leave To empty for fan-out")
	}
}

func TestBuildStatusMissingEmail(t *testing.T) {
	msg := BuildStatusMissingEmail(StatusAlertData{
		CrewID:       "crew-42",
		AssignmentID: "asg-7",
		Checkpoint:   "3PM",
	})
	if msg.Subject != "Status Update Missing" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "3PM") {
		t.Errorf("body does not name the checkpoint: %q", msg.TextBody)
	}
}

func TestBuildRepeatOffenderEmail_StripsMarkup(t *testing.T) {
	msg := BuildRepeatOffenderEmail(`123 <script>alert(1)</script>Main St`)
	if strings.Contains(msg.TextBody, "<script>") {
		t.Errorf("markup survived into body: %q", msg.TextBody)
	}
	if !strings.Contains(msg.TextBody, "repeat offender") {
		t.Errorf("unexpected body: %q", msg.TextBody)
	}
}

func TestRender_MultipartWhenHTMLPresent(t *testing.T) {
	m := New(Config{From: "alerts@ezzday.com", FromName: "eZzDay Operations"}, nil)

	plain := m.render(Email{To: "sup@ops.example", Subject: "s", TextBody: "body"})
	if strings.Contains(string(plain), "multipart/alternative") {
		t.Error("plain message should not be multipart")
	}

	rich := m.render(Email{To: "sup@ops.example", Subject: "s", TextBody: "body", HTMLBody: "<p>body</p>"})
	if !strings.Contains(string(rich), "multipart/alternative") {
		t.Error("HTML message should be multipart")
	}
}
