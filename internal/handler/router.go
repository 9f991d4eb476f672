package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	adminHandler "github.com/policyqa/policyqa-backend/internal/handler/admin"
	authHandler "github.com/policyqa/policyqa-backend/internal/handler/auth"
	historyHandler "github.com/policyqa/policyqa-backend/internal/handler/history"
	qaHandler "github.com/policyqa/policyqa-backend/internal/handler/qa"
	"github.com/policyqa/policyqa-backend/internal/middleware"
	"github.com/policyqa/policyqa-backend/internal/service/answer"
	authservice "github.com/policyqa/policyqa-backend/internal/service/auth"
	historyservice "github.com/policyqa/policyqa-backend/internal/service/history"
	"github.com/policyqa/policyqa-backend/pkg/utils"
)

// Options carries router-level settings that do not belong to any one handler.
type Options struct {
	AllowedOrigins []string
	CookieSecure   bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(sessions *authservice.Service, history *historyservice.Service, answers *answer.Client, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	authmw := middleware.NewAuthenticator(sessions)

	r.Route("/api", func(api chi.Router) {
		authHandler.New(sessions, authmw, opts.CookieSecure).RegisterRoutes(api)
		historyHandler.New(history, authmw).RegisterRoutes(api)
		qaHandler.New(answers, authmw).RegisterRoutes(api)
		adminHandler.New(answers, authmw).RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
