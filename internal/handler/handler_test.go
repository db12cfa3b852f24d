package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
	ws "github.com/gramarogya/nondvahi/internal/websocket"
)

const (
	testVillage = "वडगाव"
	testUser    = "asha"
)

type testEnv struct {
	db        *database.DB
	hub       *ws.Hub
	templates *Templates
	logger    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)
	tmpl, err := NewTemplates(logger)
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return &testEnv{db: db, hub: ws.NewHub(logger), templates: tmpl, logger: logger}
}

func as(r *http.Request, village, username, role string) *http.Request {
	return r.WithContext(auth.WithAuth(r.Context(), auth.AuthContext{
		UserID:   1,
		Username: username,
		Village:  village,
		Role:     role,
	}))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return as(req, testVillage, testUser, model.RoleUser)
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return as(req, testVillage, testUser, model.RoleUser)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}
