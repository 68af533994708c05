package issues_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	feature "github.com/ezzdayhq/ezzday/internal/app/features/issues"
	issuestore "github.com/ezzdayhq/ezzday/internal/app/store/issues"
	supervisorstore "github.com/ezzdayhq/ezzday/internal/app/store/supervisors"
	"github.com/ezzdayhq/ezzday/internal/app/system/mailer"
	"github.com/ezzdayhq/ezzday/internal/app/system/offenders"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
	"github.com/ezzdayhq/ezzday/internal/testutil"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := issuestore.New(db)
	det := offenders.NewDetector(store, supervisorstore.New(db),
		&mailer.LogSender{Log: zap.NewNop()}, zap.NewNop())
	h := feature.NewHandler(store, det, zap.NewNop())
	return feature.Routes(h)
}

func createBody(address string) string {
	return fmt.Sprintf(`{"crew_id":%q,"route_id":%q,"address":%q,"issue_type":%q}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(),
		address, models.IssueNothingOut)
}

func TestServeCreate_SecondIssueFlagsAddress(t *testing.T) {
	router := setup(t)

	post := func() models.Issue {
		req := httptest.NewRequest("POST", "/", strings.NewReader(createBody("123 Test Street")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var issue models.Issue
		if err := json.NewDecoder(rec.Body).Decode(&issue); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		return issue
	}

	first := post()
	if first.RepeatOffender {
		t.Error("first issue at an address must not be flagged")
	}

	second := post()
	if !second.RepeatOffender {
		t.Error("second issue at the same address must be flagged")
	}
}

func TestServeCreate_MissingAddress(t *testing.T) {
	router := setup(t)

	body := fmt.Sprintf(`{"crew_id":%q,"route_id":%q}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeRepeatAddresses(t *testing.T) {
	router := setup(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/", strings.NewReader(createBody("456 Other Ave")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/repeat-offenders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp["addresses"]) != 1 || resp["addresses"][0] != "456 Other Ave" {
		t.Errorf("addresses = %v, want [456 Other Ave]", resp["addresses"])
	}
}
