package server

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gramarogya/nondvahi/internal/backup"
	"github.com/gramarogya/nondvahi/internal/config"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/handler"
	"github.com/gramarogya/nondvahi/internal/middleware"
	"github.com/gramarogya/nondvahi/internal/report"
	"github.com/gramarogya/nondvahi/internal/store"
	ws "github.com/gramarogya/nondvahi/internal/websocket"
	"github.com/gramarogya/nondvahi/web"
)

const (
	loginLimit  = 10
	loginWindow = time.Minute
)

type Server struct {
	hub           *ws.Hub
	authH         *handler.AuthHandler
	householdH    *handler.HouseholdHandler
	familyMemberH *handler.FamilyMemberHandler
	beneficiaryH  *handler.BeneficiaryHandler
	reportH       *handler.ReportHandler
	documentH     *handler.DocumentHandler
	adminH        *handler.AdminHandler
	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(cfg *config.Config, db *database.DB, logger *slog.Logger) (*Server, error) {
	tmpl, err := handler.NewTemplates(logger.With("component", "template"))
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	householdStore := store.NewHouseholdStore(db)
	familyMemberStore := store.NewFamilyMemberStore(db)
	beneficiaryStore := store.NewBeneficiaryStore(db)
	reportStore := store.NewReportStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, logger.With("component", "backup"))
	fonts := report.NewFontCache(cfg.Fonts.Devanagari)

	return &Server{
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, tmpl, cfg.Server.SessionTTL, cfg.Server.SecureCookies, logger.With("component", "auth")),
		householdH:    handler.NewHouseholdHandler(householdStore, hub, tmpl, logger.With("component", "household")),
		familyMemberH: handler.NewFamilyMemberHandler(familyMemberStore, householdStore, hub, tmpl, logger.With("component", "family_member")),
		beneficiaryH:  handler.NewBeneficiaryHandler(beneficiaryStore, hub, tmpl, logger.With("component", "beneficiary")),
		reportH:       handler.NewReportHandler(reportStore, householdStore, tmpl, logger.With("component", "report")),
		documentH:     handler.NewDocumentHandler(householdStore, reportStore, beneficiaryStore, fonts, tmpl, logger.With("component", "document")),
		adminH:        handler.NewAdminHandler(userStore, backupMgr, tmpl, logger.With("component", "admin")),
		sessionStore:  sessionStore,
		userStore:     userStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}, nil
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	static, _ := fs.Sub(web.Static, "static")
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "ws_clients": s.hub.ClientCount()})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, loginLimit, loginWindow)
	return rl(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Pages
	mux.HandleFunc("GET /{$}", s.reportH.Dashboard)
	mux.HandleFunc("GET /households", s.householdH.Page)
	mux.HandleFunc("POST /households", s.householdH.Submit)
	mux.HandleFunc("GET /members", s.familyMemberH.Page)
	mux.HandleFunc("POST /members", s.familyMemberH.Submit)
	mux.HandleFunc("GET /beneficiaries", s.beneficiaryH.Page)
	mux.HandleFunc("POST /beneficiaries", s.beneficiaryH.Submit)
	mux.HandleFunc("GET /reports", s.reportH.Page)
	mux.HandleFunc("GET /documents", s.documentH.Page)

	// Exports
	mux.HandleFunc("GET /reports/village.csv", s.reportH.VillageCSV)
	mux.HandleFunc("GET /beneficiaries/export.xlsx", s.beneficiaryH.ExportXLSX)

	// Documents
	mux.HandleFunc("GET /documents/household-register", s.documentH.HouseholdRegister)
	mux.HandleFunc("GET /documents/village-members", s.documentH.VillageMembers)
	mux.HandleFunc("GET /documents/immunization-list", s.documentH.ImmunizationList)
	mux.HandleFunc("GET /documents/monthly-diary", s.documentH.MonthlyDiary)
	mux.HandleFunc("POST /documents/monthly-diary", s.documentH.MonthlyDiary)
	mux.HandleFunc("GET /documents/monthly-diary/edit", s.documentH.EditDiary)
	mux.HandleFunc("GET /documents/yearly-diary", s.documentH.YearlyDiary)
	mux.HandleFunc("GET /documents/entomological-survey", s.documentH.EntomologicalSurvey)
	mux.HandleFunc("GET /documents/blood-smear", s.documentH.BloodSmear)
	mux.HandleFunc("GET /documents/letters/{kind}", s.documentH.Letter)
	mux.HandleFunc("POST /documents/letters/{kind}", s.documentH.Letter)
	mux.HandleFunc("GET /documents/register-book", s.documentH.RegisterBook)

	// Household API
	mux.HandleFunc("GET /api/households", s.householdH.List)
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households/next-mno", s.householdH.NextMNo)
	mux.HandleFunc("GET /api/households/m-nos", s.householdH.MNos)
	mux.HandleFunc("PUT /api/households/{id}", s.householdH.Update)
	mux.HandleFunc("DELETE /api/households/m-no/{m_no}", s.householdH.Delete)

	// Family member API
	mux.HandleFunc("GET /api/family-members", s.familyMemberH.List)
	mux.HandleFunc("POST /api/family-members", s.familyMemberH.Create)
	mux.HandleFunc("PUT /api/family-members/{id}", s.familyMemberH.Update)
	mux.HandleFunc("DELETE /api/family-members/{id}", s.familyMemberH.Delete)

	// Beneficiary API
	mux.HandleFunc("GET /api/beneficiaries", s.beneficiaryH.List)
	mux.HandleFunc("POST /api/beneficiaries", s.beneficiaryH.Create)
	mux.HandleFunc("GET /api/beneficiaries/booths", s.beneficiaryH.Booths)
	mux.HandleFunc("GET /api/beneficiaries/{id}", s.beneficiaryH.Get)
	mux.HandleFunc("PUT /api/beneficiaries/{id}", s.beneficiaryH.Update)
	mux.HandleFunc("DELETE /api/beneficiaries/{id}", s.beneficiaryH.Delete)

	// Report API
	mux.HandleFunc("GET /api/reports/village", s.reportH.Village)
	mux.HandleFunc("GET /api/reports/summary", s.reportH.Summary)

	// Admin
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }
	mux.Handle("GET /admin", admin(s.adminH.Page))
	mux.Handle("POST /admin/users", admin(s.adminH.SubmitUser))
	mux.Handle("POST /admin/users/reset-password", admin(s.adminH.SubmitReset))
	mux.Handle("POST /admin/backups", admin(s.adminH.SubmitBackup))
	mux.Handle("GET /api/admin/users", admin(s.adminH.ListUsers))
	mux.Handle("POST /api/admin/users", admin(s.adminH.CreateUser))
	mux.Handle("POST /api/admin/users/reset-password", admin(s.adminH.ResetPassword))
	mux.Handle("GET /api/admin/backups", admin(s.adminH.ListBackups))
	mux.Handle("POST /api/admin/backups", admin(s.adminH.RunBackup))
	mux.Handle("GET /api/admin/backups/{id}/download", admin(s.adminH.DownloadBackup))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
