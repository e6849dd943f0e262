package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akarpov87/budget-keeper/internal/service"
)

// Server wires the application services into an http.Handler.
type Server struct {
	auth   *service.AuthService
	ledger *service.LedgerService
	backup *service.BackupService
	log    *zap.Logger
}

// New constructs the Server.
func New(auth *service.AuthService, ledger *service.LedgerService, backup *service.BackupService, log *zap.Logger) *Server {
	return &Server{auth: auth, ledger: ledger, backup: backup, log: log}
}

// Router builds the route tree. Everything under the authenticated group
// runs with a bound user identity resolved once per request.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/password/reset", s.handleResetPassword)
		r.Get("/security-questions", s.handleSecurityQuestions)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(s.auth, s.log))

			r.Get("/session", s.handleSession)

			r.Get("/salary", s.handleGetSalary)
			r.Put("/salary", s.handleSetSalary)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleAddTransaction)
			r.Get("/reports/categories", s.handleCategoryTotals)

			r.Get("/backups", s.handleListBackups)
			r.Post("/backups", s.handleCreateBackup)
			r.Post("/backups/restore", s.handleRestoreBackup)
		})
	})
	return r
}
