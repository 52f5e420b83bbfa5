package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/oneconsig-crm/internal/infra/http/handlers"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/middleware"
)

type routes struct {
	Auth    *handlers.AuthHandler
	Leads   *handlers.LeadHandler
	Imports *handlers.ImportHandler
	Users   *handlers.UserHandler
	Health  *handlers.HealthHandler
	Tokens  middleware.TokenParser
}

func newRouter(rt routes, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", rt.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.Tokens))

		r.Get("/auth/me", rt.Auth.Me)
		r.Get("/dashboard", rt.Leads.Stats)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", rt.Leads.List)
			r.Post("/", rt.Leads.Create)
			r.Get("/paginated", rt.Leads.Paginated)
			r.Get("/search", rt.Leads.Search)
			r.Patch("/status", rt.Leads.BulkUpdateStatus)

			r.Post("/import", rt.Imports.Import)
			r.Post("/import/async", rt.Imports.ImportAsync)
			r.Get("/import/{jobId}", rt.Imports.Status)

			r.Get("/{id}", rt.Leads.Details)
			r.Patch("/{id}", rt.Leads.UpdateInfo)
			r.Patch("/{id}/status", rt.Leads.UpdateStatus)

			r.With(middleware.RequireAdmin).Delete("/", rt.Leads.Reset)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", rt.Users.List)
			r.Post("/", rt.Users.Create)
			r.Put("/{id}", rt.Users.Update)
			r.Delete("/{id}", rt.Users.Delete)
		})
	})

	return r
}
