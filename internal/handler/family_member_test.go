package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newFamilyMemberHandler(env *testEnv) *FamilyMemberHandler {
	return NewFamilyMemberHandler(store.NewFamilyMemberStore(env.db), store.NewHouseholdStore(env.db), env.hub, env.templates, env.logger)
}

func TestFamilyMemberCreateEmptyRegister(t *testing.T) {
	env := newTestEnv(t)
	h := newFamilyMemberHandler(env)

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/family-members", map[string]any{"m_no": 1, "member_name": "राधा", "gender": "Female"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rec); msg != noHouseholds {
		t.Errorf("error = %q, want %q", msg, noHouseholds)
	}
}

func TestFamilyMemberCreateUnknownMNo(t *testing.T) {
	env := newTestEnv(t)
	h := newFamilyMemberHandler(env)
	if _, err := store.NewHouseholdStore(env.db).Create(model.Household{Village: testVillage, MNo: 1, FamilyHead: "राम"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/family-members", map[string]any{"m_no": 9, "member_name": "राधा"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rec); msg != "M No 9 is not in the register" {
		t.Errorf("error = %q", msg)
	}
}

func TestFamilyMemberCreateDefaultsGender(t *testing.T) {
	env := newTestEnv(t)
	h := newFamilyMemberHandler(env)
	if _, err := store.NewHouseholdStore(env.db).Create(model.Household{Village: testVillage, MNo: 1, FamilyHead: "राम"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	rec := httptest.NewRecorder()
	h.Create(rec, jsonRequest(t, "POST", "/api/family-members", map[string]any{"m_no": 1, "member_name": "राम", "age": 40, "bp": true}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	list, err := store.NewFamilyMemberStore(env.db).ListByVillage(testVillage)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Gender != model.GenderMale || !list[0].BP {
		t.Errorf("stored = %+v", list)
	}
}

func TestFamilyMemberDeleteOtherVillage(t *testing.T) {
	env := newTestEnv(t)
	h := newFamilyMemberHandler(env)
	if _, err := store.NewHouseholdStore(env.db).Create(model.Household{Village: "इतर", MNo: 1, FamilyHead: "राम"}); err != nil {
		t.Fatalf("create household: %v", err)
	}
	m, err := store.NewFamilyMemberStore(env.db).Create(model.FamilyMember{Village: "इतर", MNo: 1, Name: "राम", Gender: model.GenderMale})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	req := jsonRequest(t, "DELETE", "/api/family-members/x", nil)
	req.SetPathValue("id", strconv.FormatInt(m.ID, 10))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
