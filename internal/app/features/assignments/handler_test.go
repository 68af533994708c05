package assignments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	feature "github.com/ezzdayhq/ezzday/internal/app/features/assignments"
	assignmentstore "github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
	"github.com/ezzdayhq/ezzday/internal/testutil"
)

func setup(t *testing.T) (*assignmentstore.Store, http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := assignmentstore.New(db)
	h := feature.NewHandler(store, zap.NewNop())
	return store, feature.Routes(h), testutil.NewFixtures(t, db)
}

func TestServeSetStatus_WriteOnce(t *testing.T) {
	_, router, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, time.Now().UTC())
	target := "/" + a.ID.Hex() + "/status/11AM"

	req := httptest.NewRequest("POST", target, strings.NewReader(`{"status":"on schedule"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first status: got %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	req = httptest.NewRequest("POST", target, strings.NewReader(`{"status":"second thoughts"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestServeSetStatus_UnknownLabel(t *testing.T) {
	_, router, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, time.Now().UTC())

	req := httptest.NewRequest("POST", "/"+a.ID.Hex()+"/status/2PM",
		strings.NewReader(`{"status":"nope"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeComplete(t *testing.T) {
	_, router, fixtures := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAssignment(ctx, time.Now().UTC())

	req := httptest.NewRequest("POST", "/"+a.ID.Hex()+"/complete",
		strings.NewReader(`{"end_time":"14:45"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var done models.Assignment
	if err := json.NewDecoder(rec.Body).Decode(&done); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if done.CompletionTime != 8.25 {
		t.Errorf("CompletionTime = %v, want 8.25", done.CompletionTime)
	}
}

func TestServeConfirmAttendance_NotFound(t *testing.T) {
	_, router, _ := setup(t)

	req := httptest.NewRequest("POST", "/ffffffffffffffffffffffff/attendance",
		strings.NewReader(`{"attendance_confirmed":true,"ppe_compliance":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
