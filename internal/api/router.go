package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/onsite-build/engine/internal/api/handlers"
	mw "github.com/onsite-build/engine/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret           []byte
	AuthHandler          *handlers.AuthHandler
	ProjectsHandler      *handlers.ProjectsHandler
	BudgetsHandler       *handlers.BudgetsHandler
	ReportsHandler       *handlers.ReportsHandler
	VendorsHandler       *handlers.VendorsHandler
	NotificationsHandler *handlers.NotificationsHandler
	WorkersHandler       *handlers.WorkersHandler
	PaymentsHandler      *handlers.PaymentsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api", func(api chi.Router) {
		// Public routes: signup/login, the gateway's redirect target,
		// and the budget read a shared client opens without a session.
		api.Post("/user/signup", dep.AuthHandler.Signup)
		api.Post("/user/login", dep.AuthHandler.Login)
		api.Get("/verify-khalti", dep.PaymentsHandler.Verify)
		api.Get("/project/{id}/budget", dep.BudgetsHandler.GetProjectBudget)

		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))

			protected.Route("/project", func(pr chi.Router) {
				pr.Post("/", dep.ProjectsHandler.Create)
				pr.Get("/", dep.ProjectsHandler.List)
				pr.Get("/{id}", dep.ProjectsHandler.Get)
				pr.Delete("/{id}", dep.ProjectsHandler.Delete)
				pr.Post("/share", dep.ProjectsHandler.Share)
				pr.Get("/{id}/workers", dep.WorkersHandler.ListByProject)
			})

			protected.Post("/budget/add-transaction", dep.BudgetsHandler.AddTransaction)
			protected.Post("/budget/transaction", dep.BudgetsHandler.ListTransactions)

			protected.Get("/report", dep.ReportsHandler.TrialBalance)

			protected.Route("/vendor", func(vr chi.Router) {
				vr.Post("/", dep.VendorsHandler.Create)
				vr.Get("/", dep.VendorsHandler.List)
				vr.Get("/{id}/total", dep.VendorsHandler.Total)
			})

			protected.Route("/notification", func(nr chi.Router) {
				nr.Get("/", dep.NotificationsHandler.List)
				nr.Delete("/{id}", dep.NotificationsHandler.Delete)
			})

			protected.Route("/worker", func(wr chi.Router) {
				wr.Post("/", dep.WorkersHandler.Create)
				wr.Post("/attendance", dep.WorkersHandler.Attendance)
			})

			protected.Post("/initialize-khalti", dep.PaymentsHandler.Initialize)
		})
	})

	return r
}
