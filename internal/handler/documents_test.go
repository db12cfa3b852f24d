package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/report"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newDocumentHandler(t *testing.T, env *testEnv, withFont bool) *DocumentHandler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NotoSansDevanagari-Regular.ttf")
	if withFont {
		if err := os.WriteFile(path, []byte("not really a font"), 0o644); err != nil {
			t.Fatalf("write font: %v", err)
		}
	}
	h := NewDocumentHandler(
		store.NewHouseholdStore(env.db),
		store.NewReportStore(env.db),
		store.NewBeneficiaryStore(env.db),
		report.NewFontCache(path),
		env.templates,
		env.logger,
	)
	h.now = func() time.Time { return fixedToday }
	return h
}

func TestDocumentJSONDefinition(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, false)
	if _, err := store.NewHouseholdStore(env.db).Create(model.Household{Village: testVillage, MNo: 1, FamilyHead: "राम"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HouseholdRegister(rec, jsonRequest(t, "GET", "/documents/household-register?format=json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var doc map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["content"]; !ok {
		t.Error("definition has no content")
	}
}

func TestDocumentFontMissing(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, false)

	rec := httptest.NewRecorder()
	h.YearlyDiary(rec, jsonRequest(t, "GET", "/documents/yearly-diary?year=2024", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), fontMissingText) {
		t.Error("documents page does not show the font error")
	}
}

func TestDocumentViewerEmbedsFont(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, true)

	rec := httptest.NewRecorder()
	h.EntomologicalSurvey(rec, jsonRequest(t, "GET", "/documents/entomological-survey?pages=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "bm90IHJlYWxseSBhIGZvbnQ") {
		t.Error("viewer does not carry the encoded font")
	}
}

func TestBloodSmearFallsBack(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, false)

	rec := httptest.NewRecorder()
	h.BloodSmear(rec, jsonRequest(t, "GET", "/documents/blood-smear", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Devanagari font not found") {
		t.Error("fallback notice missing")
	}
}

func TestImmunizationListEmptyBooth(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, true)

	rec := httptest.NewRecorder()
	h.ImmunizationList(rec, jsonRequest(t, "GET", "/documents/immunization-list?format=json&booth_no=4", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rec); msg != "No data to generate PDF" {
		t.Errorf("error = %q", msg)
	}
}

func TestVillageMembersEmptyVillage(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, true)
	// A household without members still leaves the listing empty.
	if _, err := store.NewHouseholdStore(env.db).Create(model.Household{Village: testVillage, MNo: 1, FamilyHead: "राम"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	rec := httptest.NewRecorder()
	h.VillageMembers(rec, jsonRequest(t, "GET", "/documents/village-members?format=json", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	if msg := errorBody(t, rec); msg != "No data to generate PDF" {
		t.Errorf("error = %q", msg)
	}
}

func TestDocumentParameterErrors(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, true)

	tests := []struct {
		name   string
		target string
		serve  func(http.ResponseWriter, *http.Request)
	}{
		{"month out of range", "/documents/monthly-diary?format=json&month=13", h.MonthlyDiary},
		{"year out of range", "/documents/yearly-diary?format=json&year=20", h.YearlyDiary},
		{"sets not a number", "/documents/register-book?format=json&sets.x=abc", h.RegisterBook},
		{"too many sets", "/documents/register-book?format=json&sets.x=51", h.RegisterBook},
		{"bad immunization date", "/documents/immunization-list?format=json&date=15-06-2024", h.ImmunizationList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.serve(rec, jsonRequest(t, "GET", tt.target, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestLetterKinds(t *testing.T) {
	env := newTestEnv(t)
	h := newDocumentHandler(t, env, true)

	req := jsonRequest(t, "GET", "/documents/letters/milk?format=json", nil)
	req.SetPathValue("kind", "milk")
	rec := httptest.NewRecorder()
	h.Letter(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown kind status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = jsonRequest(t, "GET", "/documents/letters/salt?format=json&phc=Bhigwan&rows=Shop|Village", nil)
	req.SetPathValue("kind", "Salt")
	rec = httptest.NewRecorder()
	h.Letter(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("salt status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "मीठ नमुने तपासणी बाबत") {
		t.Error("salt letter subject missing")
	}
}

func TestParseLetterRows(t *testing.T) {
	got := parseLetterRows("a | b\n\n  c|d|e  \n")
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0][0] != "a" || got[0][1] != "b" {
		t.Errorf("row 0 = %q", got[0])
	}
	if len(got[1]) != 3 || got[1][2] != "e" {
		t.Errorf("row 1 = %q", got[1])
	}
}
