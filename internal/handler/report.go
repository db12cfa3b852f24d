package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/export"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

type ReportHandler struct {
	store      *store.ReportStore
	households *store.HouseholdStore
	templates  *Templates
	logger     *slog.Logger
}

func NewReportHandler(s *store.ReportStore, hs *store.HouseholdStore, tmpl *Templates, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{store: s, households: hs, templates: tmpl, logger: logger}
}

// reportQuery is the village report's filter: a health condition and an
// optional M No.
type reportQuery struct {
	Filter model.HealthFilter
	MNo    *int
}

func parseReportQuery(r *http.Request) (reportQuery, error) {
	q := reportQuery{Filter: model.ParseHealthFilter(r.URL.Query().Get("filter"))}
	if s := strings.TrimSpace(r.URL.Query().Get("m_no")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, &model.ValidationError{Message: "invalid M No"}
		}
		q.MNo = &n
	}
	return q, nil
}

func (q reportQuery) encode() string {
	v := url.Values{}
	v.Set("filter", string(q.Filter))
	if q.MNo != nil {
		v.Set("m_no", strconv.Itoa(*q.MNo))
	}
	return v.Encode()
}

func (h *ReportHandler) Village(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.store.VillageMembers(auth.Village(r.Context()), q.Filter, q.MNo)
	if err != nil {
		h.logger.Error("village report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if rows == nil {
		rows = []model.MemberReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) VillageCSV(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	village := auth.Village(r.Context())
	rows, err := h.store.VillageMembers(village, q.Filter, q.MNo)
	if err != nil {
		h.logger.Error("village report", "error", err)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteVillageCSV(&buf, rows); err != nil {
		h.logger.Error("write csv", "error", err)
		http.Error(w, "failed to export report", http.StatusInternalServerError)
		return
	}
	filename := village + "_family_members.csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="family_members.csv"; filename*=UTF-8''`+url.PathEscape(filename))
	buf.WriteTo(w)
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Summary(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("village summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := newPage(r, "dashboard", "Dashboard")
	s, err := h.store.Summary(auth.Village(r.Context()))
	if err != nil {
		h.logger.Error("village summary", "error", err)
		page.Error = "Failed to load summary."
	} else {
		page.Data = s
	}
	h.templates.render(w, http.StatusOK, "dashboard", page)
}

func (h *ReportHandler) Page(w http.ResponseWriter, r *http.Request) {
	village := auth.Village(r.Context())
	page := newPage(r, "reports", "Reports")
	status := http.StatusOK

	q, err := parseReportQuery(r)
	if err != nil {
		page.Error = err.Error()
		status = http.StatusBadRequest
	}
	var rows []model.MemberReportRow
	if page.Error == "" {
		rows, err = h.store.VillageMembers(village, q.Filter, q.MNo)
		if err != nil {
			h.logger.Error("village report", "error", err)
			page.Error = "Failed to load report."
			status = http.StatusInternalServerError
		}
	}
	mNos, err := h.households.MNos(village)
	if err != nil {
		h.logger.Error("list m_nos", "error", err)
	}

	selected := 0
	if q.MNo != nil {
		selected = *q.MNo
	}
	page.Data = map[string]any{
		"Rows":    rows,
		"Filter":  q.Filter,
		"Filters": model.HealthFilters,
		"MNo":     selected,
		"MNos":    mNos,
		"Query":   template.URL(q.encode()),
	}
	h.templates.render(w, status, "reports", page)
}
