package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

var fixedToday = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func newBeneficiaryHandler(env *testEnv) *BeneficiaryHandler {
	h := NewBeneficiaryHandler(store.NewBeneficiaryStore(env.db), env.hub, env.templates, env.logger)
	h.now = func() time.Time { return fixedToday }
	return h
}

func TestBeneficiaryCreate(t *testing.T) {
	env := newTestEnv(t)
	h := newBeneficiaryHandler(env)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		errMsg string
	}{
		{"valid", map[string]any{"name": "आर्या", "dob": "2024-06-15", "gender": "F", "booth_no": "3"}, http.StatusCreated, ""},
		{"future dob", map[string]any{"name": "आर्या", "dob": "2024-06-16", "gender": "F"}, http.StatusBadRequest, "Date of birth cannot be in the future"},
		{"bad date", map[string]any{"name": "आर्या", "dob": "15/06/2024", "gender": "F"}, http.StatusBadRequest, "Date of birth must be YYYY-MM-DD"},
		{"missing dob", map[string]any{"name": "आर्या", "gender": "F"}, http.StatusBadRequest, "Date of birth is required"},
		{"bad gender", map[string]any{"name": "आर्या", "dob": "2024-01-01", "gender": "X"}, http.StatusBadRequest, "Gender must be M or F or O"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, jsonRequest(t, "POST", "/api/beneficiaries", tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.errMsg != "" {
				if msg := errorBody(t, rec); msg != tt.errMsg {
					t.Errorf("error = %q, want %q", msg, tt.errMsg)
				}
			}
		})
	}
}

func TestBeneficiaryScopedToCreator(t *testing.T) {
	env := newTestEnv(t)
	h := newBeneficiaryHandler(env)
	b, err := store.NewBeneficiaryStore(env.db).Create(model.Beneficiary{
		Name: "ओम", DOB: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Gender: "M", CreatedBy: "other",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := strconv.FormatInt(b.ID, 10)

	req := jsonRequest(t, "GET", "/api/beneficiaries/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = jsonRequest(t, "DELETE", "/api/beneficiaries/"+id, nil)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	req = jsonRequest(t, "PUT", "/api/beneficiaries/"+id, map[string]any{"name": "ओम", "dob": "2023-01-02", "gender": "M"})
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBeneficiaryExportXLSX(t *testing.T) {
	env := newTestEnv(t)
	h := newBeneficiaryHandler(env)
	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/beneficiaries", map[string]any{"name": "आर्या", "dob": "2024-02-01", "gender": "F"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ExportXLSX(rec, jsonRequest(t, "GET", "/beneficiaries/export.xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	// xlsx files are zip archives.
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("body is not a zip archive")
	}
}
