package handler

import (
	"bytes"
	"cmp"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/export"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
	ws "github.com/gramarogya/nondvahi/internal/websocket"
)

const beneficiaryNotFound = "beneficiary not found"

type BeneficiaryHandler struct {
	store     *store.BeneficiaryStore
	hub       *ws.Hub
	templates *Templates
	logger    *slog.Logger
	now       func() time.Time
}

func NewBeneficiaryHandler(s *store.BeneficiaryStore, hub *ws.Hub, tmpl *Templates, logger *slog.Logger) *BeneficiaryHandler {
	return &BeneficiaryHandler{store: s, hub: hub, templates: tmpl, logger: logger, now: time.Now}
}

// beneficiaryInput carries the date of birth as the YYYY-MM-DD the forms
// send.
type beneficiaryInput struct {
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Gender  string `json:"gender"`
	BoothNo string `json:"booth_no"`
}

func (in beneficiaryInput) toModel() (model.Beneficiary, error) {
	b := model.Beneficiary{Name: in.Name, Gender: in.Gender, BoothNo: in.BoothNo}
	if s := strings.TrimSpace(in.DOB); s != "" {
		dob, err := time.Parse(model.DateLayout, s)
		if err != nil {
			return b, &model.ValidationError{Message: "Date of birth must be YYYY-MM-DD"}
		}
		b.DOB = dob
	}
	return b, nil
}

func beneficiaryFromForm(r *http.Request) (model.Beneficiary, error) {
	return beneficiaryInput{
		Name:    r.FormValue("name"),
		DOB:     r.FormValue("dob"),
		Gender:  r.FormValue("gender"),
		BoothNo: r.FormValue("booth_no"),
	}.toModel()
}

func (h *BeneficiaryHandler) create(r *http.Request, b model.Beneficiary) (*model.Beneficiary, error) {
	b.CreatedBy = auth.Username(r.Context())
	if err := b.Validate(h.now()); err != nil {
		return nil, err
	}
	created, err := h.store.Create(b)
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(auth.Village(r.Context()), ws.NewMessage(ws.EntityBeneficiary, ws.ActionCreated, created.ID))
	return created, nil
}

func (h *BeneficiaryHandler) update(r *http.Request, id int64, b model.Beneficiary) (*model.Beneficiary, error) {
	b.ID = id
	b.CreatedBy = auth.Username(r.Context())
	if err := b.Validate(h.now()); err != nil {
		return nil, err
	}
	updated, err := h.store.Update(b)
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(auth.Village(r.Context()), ws.NewMessage(ws.EntityBeneficiary, ws.ActionUpdated, updated.ID))
	return updated, nil
}

func (h *BeneficiaryHandler) remove(r *http.Request, id int64) error {
	if err := h.store.Delete(auth.Username(r.Context()), id); err != nil {
		return err
	}
	h.hub.Broadcast(auth.Village(r.Context()), ws.NewMessage(ws.EntityBeneficiary, ws.ActionDeleted, id))
	return nil
}

func (h *BeneficiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(auth.Username(r.Context()))
	if err != nil {
		h.logger.Error("list beneficiaries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list beneficiaries")
		return
	}
	if list == nil {
		list = []model.Beneficiary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BeneficiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	b, err := h.store.GetByID(auth.Username(r.Context()), id)
	if err != nil {
		h.logger.Error("get beneficiary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get beneficiary")
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, beneficiaryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BeneficiaryHandler) Booths(w http.ResponseWriter, r *http.Request) {
	booths, err := h.store.Booths(auth.Username(r.Context()))
	if err != nil {
		h.logger.Error("list booths", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list booths")
		return
	}
	if booths == nil {
		booths = []string{}
	}
	writeJSON(w, http.StatusOK, booths)
}

func (h *BeneficiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in beneficiaryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := in.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.create(r, b)
	if err != nil {
		failJSON(w, h.logger, err, "failed to create beneficiary", beneficiaryNotFound, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *BeneficiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in beneficiaryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := in.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.update(r, id, b)
	if err != nil {
		failJSON(w, h.logger, err, "failed to update beneficiary", beneficiaryNotFound, "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *BeneficiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.remove(r, id); err != nil {
		failJSON(w, h.logger, err, "failed to delete beneficiary", beneficiaryNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportXLSX downloads the user's beneficiaries in ID order.
func (h *BeneficiaryHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(auth.Username(r.Context()))
	if err != nil {
		h.logger.Error("list beneficiaries", "error", err)
		http.Error(w, "failed to export beneficiaries", http.StatusInternalServerError)
		return
	}
	slices.SortFunc(list, func(a, b model.Beneficiary) int { return cmp.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	if err := export.WriteBeneficiariesXLSX(&buf, list); err != nil {
		h.logger.Error("write xlsx", "error", err)
		http.Error(w, "failed to export beneficiaries", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="beneficiaries.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

func (h *BeneficiaryHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "", "")
}

func (h *BeneficiaryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fail := func(err error, fallback string) {
		msg := failMessage(h.logger, err, fallback, beneficiaryNotFound, "")
		status, _ := statusFor(err, "", "")
		h.renderPage(w, r, status, "", msg)
	}

	switch r.FormValue("action") {
	case "add":
		b, err := beneficiaryFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		created, err := h.create(r, b)
		if err != nil {
			fail(err, "failed to add beneficiary")
			return
		}
		h.renderPage(w, r, http.StatusOK, created.Name+" added.", "")

	case "edit":
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			fail(&model.ValidationError{Message: "invalid id"}, "")
			return
		}
		b, err := beneficiaryFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		updated, err := h.update(r, id, b)
		if err != nil {
			fail(err, "failed to update beneficiary")
			return
		}
		h.renderPage(w, r, http.StatusOK, updated.Name+" updated.", "")

	case "delete":
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			fail(&model.ValidationError{Message: "invalid id"}, "")
			return
		}
		if err := h.remove(r, id); err != nil {
			fail(err, "failed to delete beneficiary")
			return
		}
		h.renderPage(w, r, http.StatusOK, "Beneficiary deleted.", "")

	default:
		fail(&model.ValidationError{Message: "unknown action"}, "")
	}
}

func (h *BeneficiaryHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, message, errMsg string) {
	username := auth.Username(r.Context())
	page := newPage(r, "beneficiaries", "Immunization")
	page.Message = message
	page.Error = errMsg

	list, err := h.store.List(username)
	if err != nil {
		h.logger.Error("list beneficiaries", "error", err)
		page.Error = "Failed to load beneficiaries."
	}

	var edit *model.Beneficiary
	if idStr := r.URL.Query().Get("edit"); idStr != "" && r.Method == http.MethodGet {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			edit, err = h.store.GetByID(username, id)
			if err != nil {
				h.logger.Error("get beneficiary", "error", err)
			}
		}
	}

	page.Data = map[string]any{
		"Beneficiaries": list,
		"Genders":       model.BeneficiaryGenders,
		"Today":         h.now().Format(model.DateLayout),
		"Edit":          edit,
	}
	h.templates.render(w, status, "beneficiaries", page)
}
