package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkpress-dev/inkpress/internal/metrics"
	"github.com/inkpress-dev/inkpress/internal/setup"
)

// New wires all routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/subscriptions", h.Subscribe)
	r.Get("/subscriptions/confirm", h.ConfirmSubscription)

	r.Post("/login", h.Login)

	r.Route("/admin", func(admin chi.Router) {
		// Publishing authenticates per request via Basic auth inside the
		// workflow; no session required.
		admin.Post("/newsletters", h.PublishNewsletter)

		admin.Group(func(session chi.Router) {
			session.Use(deps.AuthMiddleware.NeedAuth())
			session.Post("/logout", h.Logout)
			session.Post("/password", h.ChangePassword)
		})
	})

	return r
}
