package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
	ws "github.com/gramarogya/nondvahi/internal/websocket"
)

const (
	householdNotFound  = "M No entry not found"
	householdDuplicate = "This M No already exists in the village"
)

type HouseholdHandler struct {
	store     *store.HouseholdStore
	hub       *ws.Hub
	templates *Templates
	logger    *slog.Logger
}

func NewHouseholdHandler(s *store.HouseholdStore, hub *ws.Hub, tmpl *Templates, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{store: s, hub: hub, templates: tmpl, logger: logger}
}

func householdFromForm(r *http.Request) (model.Household, error) {
	h := model.Household{
		FamilyHead: r.FormValue("family_head"),
		Mobile:     r.FormValue("mobile"),
		Address:    r.FormValue("address"),
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"m_no", &h.MNo}, {"member_count", &h.MemberCount},
		{"ranjan", &h.Ranjan}, {"balar", &h.Balar}, {"taki", &h.Taki},
		{"dera", &h.Dera}, {"frize", &h.Frize}, {"e_bhandi", &h.EBhandi},
	}
	for _, f := range ints {
		n, err := formInt(r, f.key)
		if err != nil {
			return h, err
		}
		*f.dst = n
	}
	return h, nil
}

func (h *HouseholdHandler) create(r *http.Request, in model.Household) (*model.Household, error) {
	in.Village = auth.Village(r.Context())
	in.CreatedBy = auth.Username(r.Context())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created, err := h.store.Create(in)
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(created.Village, ws.NewMessage(ws.EntityHousehold, ws.ActionCreated, created.ID))
	return created, nil
}

func (h *HouseholdHandler) update(r *http.Request, id int64, in model.Household) (*model.Household, error) {
	in.ID = id
	in.Village = auth.Village(r.Context())
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := h.store.Update(in)
	if err != nil {
		return nil, err
	}
	h.hub.Broadcast(updated.Village, ws.NewMessage(ws.EntityHousehold, ws.ActionUpdated, updated.ID))
	return updated, nil
}

// remove deletes by M No and returns how many family members went with it.
func (h *HouseholdHandler) remove(r *http.Request, mNo int) (int64, error) {
	village := auth.Village(r.Context())
	existing, err := h.store.GetByMNo(village, mNo)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, store.ErrNotFound
	}
	members, err := h.store.Delete(village, mNo)
	if err != nil {
		return 0, err
	}
	h.hub.Broadcast(village, ws.NewMessage(ws.EntityHousehold, ws.ActionDeleted, existing.ID))
	return members, nil
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.store.ListByVillage(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("list households", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list households")
		return
	}
	if households == nil {
		households = []model.Household{}
	}
	writeJSON(w, http.StatusOK, households)
}

func (h *HouseholdHandler) NextMNo(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.NextMNo(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("next m_no", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute next M No")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"m_no": n})
}

func (h *HouseholdHandler) MNos(w http.ResponseWriter, r *http.Request) {
	mNos, err := h.store.MNos(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("list m_nos", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list M Nos")
		return
	}
	if mNos == nil {
		mNos = []int{}
	}
	writeJSON(w, http.StatusOK, mNos)
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.Household
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.create(r, in)
	if err != nil {
		failJSON(w, h.logger, err, "failed to create household", householdNotFound, householdDuplicate)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in model.Household
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.update(r, id, in)
	if err != nil {
		failJSON(w, h.logger, err, "failed to update household", householdNotFound, householdDuplicate)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the household with the M No in the path.
func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mNo, err := strconv.Atoi(r.PathValue("m_no"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid M No")
		return
	}
	if _, err := h.remove(r, mNo); err != nil {
		failJSON(w, h.logger, err, "failed to delete household", householdNotFound, householdDuplicate)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HouseholdHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "", "")
}

// Submit handles the page form: action is add, edit or delete.
func (h *HouseholdHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fail := func(err error, fallback string) {
		msg := failMessage(h.logger, err, fallback, householdNotFound, householdDuplicate)
		status, _ := statusFor(err, "", "")
		h.renderPage(w, r, status, "", msg)
	}

	switch r.FormValue("action") {
	case "add":
		in, err := householdFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		created, err := h.create(r, in)
		if err != nil {
			fail(err, "failed to add household")
			return
		}
		h.renderPage(w, r, http.StatusOK, "M No "+strconv.Itoa(created.MNo)+" added.", "")

	case "edit":
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			fail(&model.ValidationError{Message: "invalid id"}, "")
			return
		}
		in, err := householdFromForm(r)
		if err != nil {
			fail(err, "")
			return
		}
		updated, err := h.update(r, id, in)
		if err != nil {
			fail(err, "failed to update household")
			return
		}
		h.renderPage(w, r, http.StatusOK, "M No "+strconv.Itoa(updated.MNo)+" updated.", "")

	case "delete":
		mNo, err := formInt(r, "m_no")
		if err != nil {
			fail(err, "")
			return
		}
		members, err := h.remove(r, mNo)
		if err != nil {
			fail(err, "failed to delete household")
			return
		}
		msg := "M No " + strconv.Itoa(mNo) + " deleted."
		if members > 0 {
			msg += " " + strconv.FormatInt(members, 10) + " family members removed."
		}
		h.renderPage(w, r, http.StatusOK, msg, "")

	default:
		fail(&model.ValidationError{Message: "unknown action"}, "")
	}
}

func (h *HouseholdHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, message, errMsg string) {
	village := auth.Village(r.Context())
	page := newPage(r, "households", "M No Register")
	page.Message = message
	page.Error = errMsg

	households, err := h.store.ListByVillage(village)
	if err != nil {
		h.logger.Error("list households", "error", err)
		page.Error = "Failed to load households."
	}
	next, err := h.store.NextMNo(village)
	if err != nil {
		h.logger.Error("next m_no", "error", err)
	}

	var edit *model.Household
	if idStr := r.URL.Query().Get("edit"); idStr != "" && r.Method == http.MethodGet {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			edit, err = h.store.GetByID(village, id)
			if err != nil {
				h.logger.Error("get household", "error", err)
			}
		}
	}

	page.Data = map[string]any{
		"Households": households,
		"NextMNo":    next,
		"Edit":       edit,
	}
	h.templates.render(w, status, "households", page)
}
