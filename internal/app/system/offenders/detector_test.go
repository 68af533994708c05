package offenders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// fakeIssues tracks per-address issue counts and flags in memory.
type fakeIssues struct {
	mu     sync.Mutex
	counts map[string]int64
	flags  map[string]bool
}

func newFakeIssues() *fakeIssues {
	return &fakeIssues{counts: map[string]int64{}, flags: map[string]bool{}}
}

func (f *fakeIssues) add(address string, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[address] += n
}

func (f *fakeIssues) RepeatAddresses(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for addr, n := range f.counts {
		if n > 1 {
			out = append(out, addr)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeIssues) SetRepeatFlag(_ context.Context, addresses []string, flag bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, addr := range addresses {
		f.flags[addr] = flag
	}
	return int64(len(addresses)), nil
}

func (f *fakeIssues) ClearRepeatFlagExcept(_ context.Context, addresses []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := map[string]bool{}
	for _, addr := range addresses {
		keep[addr] = true
	}
	var n int64
	for addr, flagged := range f.flags {
		if flagged && !keep[addr] {
			f.flags[addr] = false
			n++
		}
	}
	return n, nil
}

func (f *fakeIssues) CountByAddress(_ context.Context, address string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[address], nil
}

func (f *fakeIssues) SetRepeatFlagForAddress(_ context.Context, address string, flag bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[address] = flag
	return nil
}

type fakeRoster struct {
	sups []models.Supervisor
	err  error
}

func (f *fakeRoster) ListAll(_ context.Context) ([]models.Supervisor, error) {
	return f.sups, f.err
}

// recordingSender captures sent mail; failFor makes sends to one
// recipient fail.
type recordingSender struct {
	mu      sync.Mutex
	sent    []mailer.Email
	failFor string
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor != "" && msg.To == r.failFor {
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestDetect_FlagsRepeatAddresses(t *testing.T) {
	issues := newFakeIssues()
	issues.add("123 Test Street", 3)
	issues.add("456 Other Ave", 1)

	d := NewDetector(issues, &fakeRoster{}, &recordingSender{}, zap.NewNop())

	got, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(got) != 1 || got[0] != "123 Test Street" {
		t.Fatalf("Detect = %v, want [123 Test Street]", got)
	}
	if !issues.flags["123 Test Street"] {
		t.Error("repeat address was not flagged")
	}
	if issues.flags["456 Other Ave"] {
		t.Error("singleton address was flagged")
	}
}

func TestDetect_Idempotent(t *testing.T) {
	issues := newFakeIssues()
	issues.add("123 Test Street", 2)

	d := NewDetector(issues, &fakeRoster{}, &recordingSender{}, zap.NewNop())

	for i := 0; i < 3; i++ {
		got, err := d.Detect(context.Background())
		if err != nil {
			t.Fatalf("Detect pass %d: %v", i, err)
		}
		if len(got) != 1 || got[0] != "123 Test Street" {
			t.Fatalf("Detect pass %d = %v, want [123 Test Street]", i, got)
		}
	}
}

func TestDetect_ClearsStaleFlags(t *testing.T) {
	issues := newFakeIssues()
	issues.add("123 Test Street", 2)
	d := NewDetector(issues, &fakeRoster{}, &recordingSender{}, zap.NewNop())

	if _, err := d.Detect(context.Background()); err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// Drop back to a single issue; the next pass must clear the flag.
	issues.add("123 Test Street", -1)
	got, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Detect = %v, want empty", got)
	}
	if issues.flags["123 Test Street"] {
		t.Error("flag not cleared after count fell below threshold")
	}
}

func TestEscalate_FansOutToAllSupervisors(t *testing.T) {
	roster := &fakeRoster{sups: []models.Supervisor{
		{FullName: "A", Email: "a@ops.example"},
		{FullName: "B", Email: "b@ops.example"},
	}}
	sender := &recordingSender{}
	d := NewDetector(newFakeIssues(), roster, sender, zap.NewNop())

	err := d.Escalate(context.Background(), []string{"123 Test Street", "789 Elm St"})
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if len(sender.sent) != 4 {
		t.Fatalf("sent %d emails, want 4", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.Subject != "Repeat Offender Notification" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
	}
}

func TestEscalate_OneFailureDoesNotStopOthers(t *testing.T) {
	roster := &fakeRoster{sups: []models.Supervisor{
		{FullName: "A", Email: "a@ops.example"},
		{FullName: "B", Email: "b@ops.example"},
	}}
	sender := &recordingSender{failFor: "a@ops.example"}
	d := NewDetector(newFakeIssues(), roster, sender, zap.NewNop())

	err := d.Escalate(context.Background(), []string{"123 Test Street"})
	if err == nil {
		t.Fatal("expected an error for the failed recipient")
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "b@ops.example" {
		t.Fatalf("sent = %+v, want exactly the surviving recipient", sender.sent)
	}
}

func TestEscalate_NoAddressesNoMail(t *testing.T) {
	sender := &recordingSender{}
	d := NewDetector(newFakeIssues(), &fakeRoster{sups: []models.Supervisor{{Email: "a@ops.example"}}}, sender, zap.NewNop())

	if err := d.Escalate(context.Background(), nil); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.sent))
	}
}

func TestSyncAddress(t *testing.T) {
	issues := newFakeIssues()
	issues.add("123 Test Street", 1)
	d := NewDetector(issues, &fakeRoster{}, &recordingSender{}, zap.NewNop())

	repeat, err := d.SyncAddress(context.Background(), "123 Test Street")
	if err != nil {
		t.Fatalf("SyncAddress: %v", err)
	}
	if repeat {
		t.Error("single issue reported as repeat")
	}

	issues.add("123 Test Street", 1)
	repeat, err = d.SyncAddress(context.Background(), "123 Test Street")
	if err != nil {
		t.Fatalf("SyncAddress: %v", err)
	}
	if !repeat {
		t.Error("second issue at address not reported as repeat")
	}
	if !issues.flags["123 Test Street"] {
		t.Error("flag not set after second issue")
	}
}
