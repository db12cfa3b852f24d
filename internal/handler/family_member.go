package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
	ws "github.com/gramarogya/nondvahi/internal/websocket"
)

const (
	memberNotFound = "family member not found"
	noHouseholds   = "Please add M No entries first"
)

type FamilyMemberHandler struct {
	store      *store.FamilyMemberStore
	households *store.HouseholdStore
	hub        *ws.Hub
	templates  *Templates
	logger     *slog.Logger
}

func NewFamilyMemberHandler(s *store.FamilyMemberStore, hs *store.HouseholdStore, hub *ws.Hub, tmpl *Templates, logger *slog.Logger) *FamilyMemberHandler {
	return &FamilyMemberHandler{store: s, households: hs, hub: hub, templates: tmpl, logger: logger}
}

func memberFromForm(r *http.Request) (model.FamilyMember, error) {
	m := model.FamilyMember{
		Name:   r.FormValue("member_name"),
		Gender: r.FormValue("gender"),
		BP:     formBool(r, "bp"),
		Sugar:  formBool(r, "sugar"),
		Other:  r.FormValue("other"),
		Mobile: r.FormValue("mobile"),
	}
	var err error
	if m.MNo, err = formInt(r, "m_no"); err != nil {
		return m, err
	}
	if m.Age, err = formInt(r, "age"); err != nil {
		return m, err
	}
	return m, nil
}

func (h *FamilyMemberHandler) create(r *http.Request, in model.FamilyMember) (*model.FamilyMember, error) {
	in.Village = auth.Village(r.Context())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := h.store.Create(in)
	if errors.Is(err, store.ErrNoHousehold) {
		return nil, h.missingHousehold(in.Village, in.MNo)
	}
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(created.Village, ws.NewMessage(ws.EntityFamilyMember, ws.ActionCreated, created.ID))
	return created, nil
}

// missingHousehold tells an empty register apart from a wrong M No.
func (h *FamilyMemberHandler) missingHousehold(village string, mNo int) error {
	mNos, err := h.households.MNos(village)
	if err != nil {
		return err
	}
	if len(mNos) == 0 {
		return &model.ValidationError{Message: noHouseholds}
	}
	return &model.ValidationError{Message: "M No " + strconv.Itoa(mNo) + " is not in the register"}
}

func (h *FamilyMemberHandler) update(r *http.Request, id int64, in model.FamilyMember) (*model.FamilyMember, error) {
	in.ID = id
	in.Village = auth.Village(r.Context())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := h.store.Update(in)
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(updated.Village, ws.NewMessage(ws.EntityFamilyMember, ws.ActionUpdated, updated.ID))
	return updated, nil
}

func (h *FamilyMemberHandler) remove(r *http.Request, id int64) error {
	village := auth.Village(r.Context())
	if err := h.store.Delete(village, id); err != nil {
		return err
	}
	h.hub.Broadcast(village, ws.NewMessage(ws.EntityFamilyMember, ws.ActionDeleted, id))
	return nil
}

func (h *FamilyMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.ListByVillage(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("list family members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list family members")
		return
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *FamilyMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.FamilyMember
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.create(r, in)
	if err != nil {
		failJSON(w, h.logger, err, "failed to create family member", memberNotFound, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *FamilyMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in model.FamilyMember
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.update(r, id, in)
	if err != nil {
		failJSON(w, h.logger, err, "failed to update family member", memberNotFound, "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *FamilyMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.remove(r, id); err != nil {
		failJSON(w, h.logger, err, "failed to delete family member", memberNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyMemberHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "", "")
}

func (h *FamilyMemberHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fail := func(err error, fallback string) {
		msg := failMessage(h.logger, err, fallback, memberNotFound, "")
		status, _ := statusFor(err, "", "")
		h.renderPage(w, r, status, "", msg)
	}

	switch r.FormValue("action") {
	case "add":
		in, err := memberFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		created, err := h.create(r, in)
		if err != nil {
			fail(err, "failed to add family member")
			return
		}
		h.renderPage(w, r, http.StatusOK, created.Name+" added to M No "+strconv.Itoa(created.MNo)+".", "")

	case "edit":
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			fail(&model.ValidationError{Message: "invalid id"}, "")
			return
		}
		in, err := memberFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		updated, err := h.update(r, id, in)
		if err != nil {
			fail(err, "failed to update family member")
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
			fail(err, "failed to delete family member")
			return
		}
		h.renderPage(w, r, http.StatusOK, "Member deleted.", "")

	default:
		fail(&model.ValidationError{Message: "unknown action"}, "")
	}
}

func (h *FamilyMemberHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, message, errMsg string) {
	village := auth.Village(r.Context())
	page := newPage(r, "members", "Family Members")
	page.Message = message
	page.Error = errMsg

	members, err := h.store.ListByVillage(village)
	if err != nil {
		h.logger.Error("list family members", "error", err)
		page.Error = "Failed to load family members."
	}
	mNos, err := h.households.MNos(village)
	if err != nil {
		h.logger.Error("list m_nos", "error", err)
	}

	var edit *model.FamilyMember
	if idStr := r.URL.Query().Get("edit"); idStr != "" && r.Method == http.MethodGet {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			edit, err = h.store.GetByID(village, id)
			if err != nil {
				h.logger.Error("get family member", "error", err)
			}
		}
	}

	page.Data = map[string]any{
		"Members": members,
		"MNos":    mNos,
		"Genders": model.Genders,
		"Edit":    edit,
	}
	h.templates.render(w, status, "members", page)
}
