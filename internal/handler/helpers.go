package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

const maxBodyBytes = 1 << 20

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &model.ValidationError{Message: "invalid JSON"}
	}
	return nil
}

// formInt reads an integer form field. A blank field is zero.
func formInt(r *http.Request, key string) (int, error) {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &model.ValidationError{Message: key + " must be a number"}
	}
	return n, nil
}

func formBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.FormValue(key))
	return b
}

// statusFor maps a store or validation error to its HTTP status and the
// message the operator sees. Anything unrecognised is a storage failure.
func statusFor(err error, notFound, duplicate string) (int, string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, duplicate
	default:
		return http.StatusInternalServerError, ""
	}
}

// failJSON writes err as a JSON error. Storage failures are logged and
// reported with fallback.
func failJSON(w http.ResponseWriter, logger *slog.Logger, err error, fallback, notFound, duplicate string) {
	status, msg := statusFor(err, notFound, duplicate)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, "error", err)
		msg = fallback
	}
	writeError(w, status, msg)
}

// failMessage is failJSON for the HTML pages: it returns the inline message
// instead of writing a response.
func failMessage(logger *slog.Logger, err error, fallback, notFound, duplicate string) string {
	status, msg := statusFor(err, notFound, duplicate)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, "error", err)
		return fallback
	}
	return msg
}
