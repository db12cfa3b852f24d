package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/middleware"
	"github.com/gramarogya/nondvahi/internal/store"
)

const invalidLogin = "Invalid username or password"

type AuthHandler struct {
	userStore     *store.UserStore
	sessionStore  *store.SessionStore
	templates     *Templates
	sessionTTL    time.Duration
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	tmpl *Templates,
	sessionTTL time.Duration,
	secureCookies bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:     us,
		sessionStore:  ss,
		templates:     tmpl,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.render(w, http.StatusOK, "login", map[string]any{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		h.templates.render(w, status, "login", map[string]any{
			"Username": username,
			"Error":    msg,
		})
	}

	if username == "" || password == "" {
		fail(http.StatusUnauthorized, invalidLogin)
		return
	}

	user, err := h.userStore.GetByUsername(username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		fail(http.StatusInternalServerError, "Login failed, please try again")
		return
	}
	if user == nil {
		fail(http.StatusUnauthorized, invalidLogin)
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		// Stored value is not a bcrypt hash; "user hash-passwords" fixes it.
		h.logger.Warn("unusable password hash", "username", username, "error", err)
	}
	if !ok {
		fail(http.StatusUnauthorized, invalidLogin)
		return
	}

	sess, err := h.sessionStore.Create(user.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "error", err)
		fail(http.StatusInternalServerError, "Login failed, please try again")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies || r.TLS != nil,
	})

	h.logger.Info("login", "username", user.Username, "village", user.Village)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessionStore.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies || r.TLS != nil,
	})

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
