package http

import (
	"net/http"

	"github.com/callme-api/internal/application/reminder"
	"github.com/callme-api/internal/application/session"
	"github.com/callme-api/internal/bus"
	"github.com/callme-api/internal/config"
	"github.com/callme-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/callme-api/internal/infrastructure/jwt"
	"github.com/callme-api/internal/transport/http/handler"
	appmiddleware "github.com/callme-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ReminderRepo *dynamo.ReminderRepo
	Broker       *bus.Broker
	JWTProvider  *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the login endpoint.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	reminderSvc := reminder.NewService(deps.ReminderRepo)
	sessionSvc := session.NewService(cfg.DevPassword, deps.JWTProvider)

	healthH := handler.NewHealthHandler()
	reminderH := handler.NewReminderHandler(reminderSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	wsH := handler.NewWSHandler(deps.Broker)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/", healthH.Root)
	r.With(sensitiveRL.Limit).Post("/auth/login", sessionH.Login)
	r.Get("/ws", wsH.Serve)

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))

		r.Post("/reminders", reminderH.Create)
		r.Get("/reminders", reminderH.List)
		r.Get("/reminders/{id}", reminderH.Get)
		r.Put("/reminders/{id}", reminderH.Update)
		r.Delete("/reminders/{id}", reminderH.Delete)
	})

	return r
}
