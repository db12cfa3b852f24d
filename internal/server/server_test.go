package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/config"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/middleware"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newTestServer(t *testing.T) (http.Handler, *database.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{SessionTTL: time.Hour},
		Fonts:  config.FontConfig{Devanagari: filepath.Join(t.TempDir(), "missing.ttf")},
	}
	srv, err := New(cfg, db, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv.Router(), db
}

// sessionCookie signs in a fresh user of role and returns its cookie.
func sessionCookie(t *testing.T, db *database.DB, username, role string) *http.Cookie {
	t.Helper()
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := store.NewUserStore(db).Create(username, hash, "वडगाव", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess, err := store.NewSessionStore(db).Create(u.ID, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token}
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestProtectedRedirectsToLogin(t *testing.T) {
	router, _ := newTestServer(t)

	for _, path := range []string{"/", "/households", "/api/households", "/documents/yearly-diary"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusSeeOther)
		}
	}
}

func TestAdminRoutesNeedAdmin(t *testing.T) {
	router, db := newTestServer(t)
	user := sessionCookie(t, db, "asha", model.RoleUser)
	admin := sessionCookie(t, db, "root", model.RoleAdmin)

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.AddCookie(user)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest("GET", "/api/admin/users", nil)
	req.AddCookie(admin)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestPagesRender(t *testing.T) {
	router, db := newTestServer(t)
	cookie := sessionCookie(t, db, "root", model.RoleAdmin)

	for _, path := range []string{"/", "/households", "/members", "/beneficiaries", "/reports", "/documents", "/documents/monthly-diary/edit", "/admin", "/login"} {
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d: %s", path, rec.Code, http.StatusOK, rec.Body.String())
		}
	}
}
