package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newHouseholdHandler(env *testEnv) *HouseholdHandler {
	return NewHouseholdHandler(store.NewHouseholdStore(env.db), env.hub, env.templates, env.logger)
}

func TestHouseholdCreate(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/households", map[string]any{
		"m_no":        1,
		"family_head": "  रामचंद्र पाटील ",
		"mobile":      "9876543210",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var got model.Household
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Village != testVillage {
		t.Errorf("village = %q, want %q", got.Village, testVillage)
	}
	if got.FamilyHead != "रामचंद्र पाटील" {
		t.Errorf("family_head = %q, want trimmed", got.FamilyHead)
	}
	if got.CreatedBy != testUser {
		t.Errorf("created_by = %q, want %q", got.CreatedBy, testUser)
	}
}

func TestHouseholdCreateDuplicate(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)
	body := map[string]any{"m_no": 4, "family_head": "सीता"}

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/households", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/households", body))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if msg := errorBody(t, rec); msg != householdDuplicate {
		t.Errorf("error = %q, want %q", msg, householdDuplicate)
	}
}

func TestHouseholdCreateBlankHead(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/households", map[string]any{"m_no": 2, "family_head": "   "}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rec); msg != "कृपया कुटुंब प्रमुखाचे नाव भरा." {
		t.Errorf("error = %q", msg)
	}
}

func TestHouseholdCreateInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	req := httptest.NewRequest("POST", "/api/households", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Create(rec, as(req, testVillage, testUser, model.RoleUser))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHouseholdNextMNo(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	for _, n := range []int{1, 2, 7} {
		rec := httptest.NewRecorder()
		h.Create(rec, jsonRequest(t, "POST", "/api/households", map[string]any{"m_no": n, "family_head": "कुटुंब"}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: status %d", n, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.NextMNo(rec, jsonRequest(t, "GET", "/api/households/next-mno", nil))
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["m_no"] != 8 {
		t.Errorf("next m_no = %d, want 8", got["m_no"])
	}
}

func TestHouseholdDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)
	members := store.NewFamilyMemberStore(env.db)

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/households", map[string]any{"m_no": 3, "family_head": "गणेश"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	for _, name := range []string{"गणेश", "लता"} {
		if _, err := members.Create(model.FamilyMember{Village: testVillage, MNo: 3, Name: name, Gender: model.GenderMale}); err != nil {
			t.Fatalf("create member: %v", err)
		}
	}

	req := jsonRequest(t, "DELETE", "/api/households/m-no/3", nil)
	req.SetPathValue("m_no", "3")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	left, err := members.ListByVillage(testVillage)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("members left = %d, want 0", len(left))
	}
}

func TestHouseholdDeleteNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	req := jsonRequest(t, "DELETE", "/api/households/m-no/9", nil)
	req.SetPathValue("m_no", "9")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHouseholdSubmitForm(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseholdHandler(env)

	rec := httptest.NewRecorder()
	h.Submit(rec, formRequest("/households", url.Values{
		"action":      {"add"},
		"m_no":        {"5"},
		"family_head": {"सुरेश"},
		"ranjan":      {"2"},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "M No 5 added.") {
		t.Error("add message missing from page")
	}

	rec = httptest.NewRecorder()
	h.Submit(rec, formRequest("/households", url.Values{"action": {"add"}, "m_no": {"5"}, "family_head": {"दुसरा"}}))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if !strings.Contains(rec.Body.String(), householdDuplicate) {
		t.Error("duplicate message missing from page")
	}

	rec = httptest.NewRecorder()
	h.Submit(rec, formRequest("/households", url.Values{"action": {"add"}, "m_no": {"abc"}, "family_head": {"x"}}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad number status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
