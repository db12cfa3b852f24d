package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/backup"
	"github.com/gramarogya/nondvahi/internal/config"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newAdminHandler(env *testEnv) *AdminHandler {
	bm := backup.NewManager(config.BackupConfig{}, env.db, store.NewBackupStore(env.db), env.logger)
	return NewAdminHandler(store.NewUserStore(env.db), bm, env.templates, env.logger)
}

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)
	body := map[string]any{"username": "sunita", "password": "pw", "village_name": testVillage, "role": "User"}

	rec := httptest.NewRecorder()
	h.CreateUser(rec, jsonRequest(t, "POST", "/api/admin/users", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	u, err := store.NewUserStore(env.db).GetByUsername("sunita")
	if err != nil || u == nil {
		t.Fatalf("get user = %v, %v", u, err)
	}
	if ok, _ := auth.CheckPassword(u.PasswordHash, "pw"); !ok {
		t.Error("stored password does not verify")
	}

	rec = httptest.NewRecorder()
	h.CreateUser(rec, jsonRequest(t, "POST", "/api/admin/users", body))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if msg := errorBody(t, rec); msg != userDuplicate {
		t.Errorf("error = %q, want %q", msg, userDuplicate)
	}
}

func TestAdminCreateUserMissingField(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	rec := httptest.NewRecorder()
	h.CreateUser(rec, jsonRequest(t, "POST", "/api/admin/users", map[string]any{"username": "x", "role": "user"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rec); msg != "All fields are required" {
		t.Errorf("error = %q", msg)
	}
}

func TestAdminResetPasswordUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(t, "POST", "/api/admin/users/reset-password", map[string]any{"username": "ghost", "password": "pw"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if msg := errorBody(t, rec); msg != userNotFound {
		t.Errorf("error = %q, want %q", msg, userNotFound)
	}
}

func TestAdminRunBackupNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	h := newAdminHandler(env)

	rec := httptest.NewRecorder()
	h.RunBackup(rec, jsonRequest(t, "POST", "/api/admin/backups", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
