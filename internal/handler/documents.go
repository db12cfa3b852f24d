package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/middleware"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/report"
	"github.com/gramarogya/nondvahi/internal/store"
)

const (
	documentsBack   = "/documents"
	fontMissingText = "Devanagari font file is missing. Ask the administrator to install it and try again."
	setsPrefix      = "sets."
	maxSets         = 50
)

var letterLabels = []struct {
	Kind  report.LetterKind
	Label string
}{
	{report.LetterWater, "पाणी नमुने"},
	{report.LetterTCL, "TCL नमुने"},
	{report.LetterSalt, "मीठ नमुने"},
}

// DocumentHandler serves the printable registers and forms. Every document is
// either rendered into the pdfmake viewer page or, with ?format=json,
// returned as the raw definition.
type DocumentHandler struct {
	households    *store.HouseholdStore
	reports       *store.ReportStore
	beneficiaries *store.BeneficiaryStore
	fonts         *report.FontCache
	templates     *Templates
	logger        *slog.Logger
	now           func() time.Time
}

func NewDocumentHandler(
	hs *store.HouseholdStore,
	rs *store.ReportStore,
	bs *store.BeneficiaryStore,
	fonts *report.FontCache,
	tmpl *Templates,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		households:    hs,
		reports:       rs,
		beneficiaries: bs,
		fonts:         fonts,
		templates:     tmpl,
		logger:        logger,
		now:           time.Now,
	}
}

func wantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == "json"
}

func intParam(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return def
	}
	return n
}

// serve writes doc as JSON or as the viewer page with the Devanagari font.
func (h *DocumentHandler) serve(w http.ResponseWriter, r *http.Request, title string, doc *report.Document) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, doc)
		return
	}
	font, err := h.fonts.Base64()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.view(w, doc, report.Page{Title: title, Back: documentsBack, Font: font})
}

func (h *DocumentHandler) view(w http.ResponseWriter, doc *report.Document, p report.Page) {
	var buf bytes.Buffer
	if err := report.Render(&buf, doc, p); err != nil {
		h.logger.Error("render document", "file", doc.FileName, "error", err)
		http.Error(w, "failed to render document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// fail shows err inline on the documents page.
func (h *DocumentHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		msg    string
		ve     *model.ValidationError
	)
	switch {
	case errors.Is(err, report.ErrFontMissing):
		h.logger.Warn("font missing", "path", h.fonts.Path())
		status, msg = http.StatusInternalServerError, fontMissingText
	case errors.Is(err, report.ErrNoRows):
		status, msg = http.StatusBadRequest, "No data to generate PDF"
	case errors.As(err, &ve):
		status, msg = http.StatusBadRequest, ve.Message
	default:
		h.logger.Error("build document", "path", r.URL.Path, "request_id", middleware.RequestID(r.Context()), "error", err)
		status, msg = http.StatusInternalServerError, "Failed to build document"
	}

	if wantsJSON(r) {
		writeError(w, status, msg)
		return
	}
	h.renderPage(w, r, status, msg)
}

func (h *DocumentHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "")
}

func (h *DocumentHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	page := newPage(r, "documents", "Documents")
	page.Error = errMsg

	booths, err := h.beneficiaries.Booths(auth.Username(r.Context()))
	if err != nil {
		h.logger.Error("list booths", "error", err)
	}
	registers, err := report.Registers()
	if err != nil {
		h.logger.Error("load registers", "error", err)
	}

	type letter struct {
		Kind    report.LetterKind
		Label   string
		Columns []string
	}
	letters := make([]letter, len(letterLabels))
	for i, l := range letterLabels {
		letters[i] = letter{Kind: l.Kind, Label: l.Label, Columns: l.Kind.Columns()}
	}

	now := h.now()
	page.Data = map[string]any{
		"Today":       now.Format(model.DateLayout),
		"Year":        now.Year(),
		"Month":       int(now.Month()),
		"Booths":      booths,
		"Letters":     letters,
		"Registers":   registers,
		"DefaultSets": report.DefaultSets,
	}
	h.templates.render(w, status, "documents", page)
}

func (h *DocumentHandler) HouseholdRegister(w http.ResponseWriter, r *http.Request) {
	households, err := h.households.ListByVillage(auth.Village(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.serve(w, r, "M No-wise Register", report.HouseholdRegister(households))
}

func (h *DocumentHandler) VillageMembers(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	village := auth.Village(r.Context())
	rows, err := h.reports.VillageMembers(village, q.Filter, q.MNo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	doc, err := report.VillageMembers(village, rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.serve(w, r, "Village-wise Family Members Report", doc)
}

func (h *DocumentHandler) ImmunizationList(w http.ResponseWriter, r *http.Request) {
	p := report.ImmunizationParams{
		Date:      h.now(),
		BoothNo:   strings.TrimSpace(r.FormValue("booth_no")),
		BoothName: strings.TrimSpace(r.FormValue("booth_name")),
		PHC:       strings.TrimSpace(r.FormValue("phc")),
		SubCentre: strings.TrimSpace(r.FormValue("sub_centre")),
	}
	if s := strings.TrimSpace(r.FormValue("date")); s != "" {
		d, err := time.Parse(model.DateLayout, s)
		if err != nil {
			h.fail(w, r, &model.ValidationError{Message: "Date must be YYYY-MM-DD"})
			return
		}
		p.Date = d
	}

	rows, err := h.beneficiaries.ListByBooth(auth.Username(r.Context()), p.BoothNo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	doc, err := report.ImmunizationList(p, rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.serve(w, r, "Pulse Polio Beneficiary List", doc)
}

func (h *DocumentHandler) diaryParams(r *http.Request) (report.MonthlyDiaryParams, error) {
	now := h.now()
	p := report.MonthlyDiaryParams{
		Year:      intParam(r, "year", now.Year()),
		Month:     time.Month(intParam(r, "month", int(now.Month()))),
		Worker:    strings.TrimSpace(r.FormValue("worker")),
		SubCentre: strings.TrimSpace(r.FormValue("sub_centre")),
	}
	if p.Month < time.January || p.Month > time.December {
		return p, &model.ValidationError{Message: "Month must be between 1 and 12"}
	}
	return p, nil
}

// MonthlyDiary prints the diary. A POST carries the operator's edited rows;
// a GET uses the default rows.
func (h *DocumentHandler) MonthlyDiary(w http.ResponseWriter, r *http.Request) {
	p, err := h.diaryParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var rows []report.DiaryRow
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.fail(w, r, &model.ValidationError{Message: "invalid form"})
			return
		}
		dates := r.PostForm["date"]
		villages := r.PostForm["village"]
		details := r.PostForm["detail"]
		remarks := r.PostForm["remark"]
		rows = make([]report.DiaryRow, len(dates))
		for i := range dates {
			rows[i] = report.DiaryRow{
				Date:    dates[i],
				Village: at(villages, i),
				Detail:  at(details, i),
				Remark:  at(remarks, i),
			}
		}
	}
	h.serve(w, r, "मासिक डायरी", report.MonthlyDiary(p, rows))
}

func at(s []string, i int) string {
	if i < len(s) {
		return strings.TrimSpace(s[i])
	}
	return ""
}

// EditDiary shows the month's rows for editing before printing.
func (h *DocumentHandler) EditDiary(w http.ResponseWriter, r *http.Request) {
	p, err := h.diaryParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page := newPage(r, "documents", "मासिक डायरी")
	page.Data = map[string]any{
		"Year":      p.Year,
		"Month":     int(p.Month),
		"MonthName": report.MarathiMonth(p.Month),
		"Worker":    p.Worker,
		"SubCentre": p.SubCentre,
		"Rows":      report.DefaultDiaryRows(p.Year, p.Month),
	}
	h.templates.render(w, http.StatusOK, "diary_edit", page)
}

func (h *DocumentHandler) YearlyDiary(w http.ResponseWriter, r *http.Request) {
	year := intParam(r, "year", h.now().Year())
	if year < 1900 || year > 9999 {
		h.fail(w, r, &model.ValidationError{Message: "Year must be between 1900 and 9999"})
		return
	}
	h.serve(w, r, "वार्षिक डायरी "+strconv.Itoa(year), report.YearlyDiary(year))
}

func (h *DocumentHandler) EntomologicalSurvey(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Daily Entomological Survey", report.EntomologicalSurvey(intParam(r, "pages", 1)))
}

// BloodSmear falls back to pdfmake's bundled Roboto when the Devanagari font
// is missing; the form is in English.
func (h *DocumentHandler) BloodSmear(w http.ResponseWriter, r *http.Request) {
	pages := intParam(r, "pages", 1)
	font, err := h.fonts.Base64()
	family, notice := report.FontFamily, ""
	switch {
	case errors.Is(err, report.ErrFontMissing):
		h.logger.Warn("font missing, using fallback", "path", h.fonts.Path())
		family, notice = report.FallbackFont, "Devanagari font not found; the form uses the default font."
	case err != nil:
		h.fail(w, r, err)
		return
	}

	doc := report.BloodSmear(pages, family)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, doc)
		return
	}
	h.view(w, doc, report.Page{Title: "Blood Smear Form", Back: documentsBack, Notice: notice, Font: font})
}

// Letter composes a sample dispatch letter. Rows come from the "rows" field,
// one per line, with cells separated by "|".
func (h *DocumentHandler) Letter(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseLetterKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p := report.LetterParams{
		PHC:         strings.TrimSpace(r.FormValue("phc")),
		SubCentre:   strings.TrimSpace(r.FormValue("sub_centre")),
		Taluka:      strings.TrimSpace(r.FormValue("taluka")),
		District:    strings.TrimSpace(r.FormValue("district")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		CollectedOn: strings.TrimSpace(r.FormValue("collected_on")),
		SentOn:      strings.TrimSpace(r.FormValue("sent_on")),
	}
	if p.Date == "" {
		p.Date = report.FormatDate(h.now())
	}

	doc, err := report.SampleLetter(kind, p, parseLetterRows(r.FormValue("rows")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.serve(w, r, "Sample Letter", doc)
}

func parseLetterRows(s string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// RegisterBook reads the per-register set counts from "sets.<name>"
// parameters. Registers without a parameter print the default number of
// sets.
func (h *DocumentHandler) RegisterBook(w http.ResponseWriter, r *http.Request) {
	sets := make(map[string]int)
	for key, vals := range r.URL.Query() {
		name, ok := strings.CutPrefix(key, setsPrefix)
		if !ok || len(vals) == 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil || n > maxSets {
			h.fail(w, r, &model.ValidationError{Message: "Sets for " + name + " must be a number up to " + strconv.Itoa(maxSets)})
			return
		}
		sets[name] = n
	}

	doc, err := report.RegisterBook(sets)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.serve(w, r, "MPW Register Book", doc)
}
