package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/backup"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

const (
	userNotFound   = "User not found"
	userDuplicate  = "Username already exists"
	backupListSize = 50
)

type AdminHandler struct {
	users     *store.UserStore
	backups   *backup.Manager
	templates *Templates
	logger    *slog.Logger
}

func NewAdminHandler(us *store.UserStore, bm *backup.Manager, tmpl *Templates, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{users: us, backups: bm, templates: tmpl, logger: logger}
}

type passwordReset struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) createUser(in model.NewUser) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := h.users.Create(in.Username, hash, in.Village, in.Role)
	if err != nil {
		return nil, err
	}
	h.logger.Info("user created", "username", u.Username, "village", u.Village, "role", u.Role)
	return u, nil
}

func (h *AdminHandler) resetPassword(in passwordReset) error {
	in.Username = model.Clean(in.Username)
	if in.Username == "" || in.Password == "" {
		return &model.ValidationError{Message: "All fields are required"}
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}
	if err := h.users.UpdatePassword(in.Username, hash); err != nil {
		return err
	}
	h.logger.Info("password reset", "username", in.Username)
	return nil
}

// backupStatus maps backup errors onto HTTP statuses.
func backupStatus(err error) (int, string) {
	switch {
	case errors.Is(err, backup.ErrNotConfigured), errors.Is(err, backup.ErrSQLiteOnly):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, backup.ErrInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, backup.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "backup failed"
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in model.NewUser
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.createUser(in)
	if err != nil {
		failJSON(w, h.logger, err, "failed to create user", userNotFound, userDuplicate)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in passwordReset
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.resetPassword(in); err != nil {
		failJSON(w, h.logger, err, "failed to reset password", userNotFound, userDuplicate)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	list, err := h.backups.List(backupListSize)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if list == nil {
		list = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) RunBackup(w http.ResponseWriter, r *http.Request) {
	b, err := h.backups.RunNow(r.Context(), auth.Username(r.Context()))
	if err != nil {
		status, msg := backupStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("run backup", "error", err)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// DownloadBackup streams the encrypted object as stored.
func (h *AdminHandler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	body, b, err := h.backups.Download(r.Context(), id)
	if err != nil {
		status, msg := backupStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("download backup", "error", err)
		}
		writeError(w, status, msg)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+b.Filename+`"`)
	if b.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(b.SizeBytes, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("download backup interrupted", "id", id, "error", err)
	}
}

func (h *AdminHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "", "")
}

func (h *AdminHandler) SubmitUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.createUser(model.NewUser{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Village:  r.FormValue("village_name"),
		Role:     r.FormValue("role"),
	})
	if err != nil {
		msg := failMessage(h.logger, err, "failed to create user", userNotFound, userDuplicate)
		status, _ := statusFor(err, "", "")
		h.renderPage(w, r, status, "", msg)
		return
	}
	h.renderPage(w, r, http.StatusOK, "User "+u.Username+" created.", "")
}

func (h *AdminHandler) SubmitReset(w http.ResponseWriter, r *http.Request) {
	in := passwordReset{Username: r.FormValue("username"), Password: r.FormValue("password")}
	if err := h.resetPassword(in); err != nil {
		msg := failMessage(h.logger, err, "failed to reset password", userNotFound, userDuplicate)
		status, _ := statusFor(err, "", "")
		h.renderPage(w, r, status, "", msg)
		return
	}
	h.renderPage(w, r, http.StatusOK, "Password reset for "+model.Clean(in.Username)+".", "")
}

func (h *AdminHandler) SubmitBackup(w http.ResponseWriter, r *http.Request) {
	b, err := h.backups.RunNow(r.Context(), auth.Username(r.Context()))
	if err != nil {
		status, msg := backupStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("run backup", "error", err)
		}
		h.renderPage(w, r, status, "", msg)
		return
	}
	h.renderPage(w, r, http.StatusOK, "Backup "+b.Filename+" completed.", "")
}

func (h *AdminHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, message, errMsg string) {
	page := newPage(r, "admin", "Admin")
	page.Message = message
	page.Error = errMsg

	users, err := h.users.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		page.Error = "Failed to load users."
	}
	var (
		backups []model.Backup
		latest  *model.Backup
	)
	if h.backups.Enabled() {
		if backups, err = h.backups.List(backupListSize); err != nil {
			h.logger.Error("list backups", "error", err)
		}
		if latest, err = h.backups.LatestCompleted(); err != nil {
			h.logger.Error("latest backup", "error", err)
		}
	}

	page.Data = map[string]any{
		"Users":          users,
		"BackupsEnabled": h.backups.Enabled(),
		"Backups":        backups,
		"LatestBackup":   latest,
	}
	h.templates.render(w, status, "admin", page)
}
