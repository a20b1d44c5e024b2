// Package server assembles the HTTP surface: routing, middleware, and the
// server lifecycle.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "github.com/pelicanmedia/pelican/internal/catalog/handler"
	"github.com/pelicanmedia/pelican/internal/config"
	"github.com/pelicanmedia/pelican/internal/httpx"
	"github.com/pelicanmedia/pelican/internal/middleware"
	userhandler "github.com/pelicanmedia/pelican/internal/user/handler"
	viewinghandler "github.com/pelicanmedia/pelican/internal/viewing/handler"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Config        *config.Config
	Logger        interfaces.Logger
	Authenticator *middleware.Authenticator
	Auth          *userhandler.AuthHandler
	Catalog       *cataloghandler.CatalogHandler
	Viewing       *viewinghandler.ViewingHandler
}

// NewRouter builds the full route tree.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(deps.Config.Server.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.Config.Storage.Type == config.StorageTypeLocal {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(deps.Config.Storage.LocalPath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	auth := deps.Authenticator
	authLimiter := middleware.NewRateLimiter(deps.Config.Auth.AuthRateLimit, deps.Config.Auth.AuthRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Limit)
			deps.Auth.Routes(r)
		})

		r.Route("/media", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.Require)
				r.Get("/", deps.Catalog.List)
				r.Get("/search", deps.Catalog.Search)
				r.Get("/categories", deps.Catalog.Categories)
				r.Get("/recommendations", deps.Viewing.Recommend)
			})

			// Anonymous detail views are allowed; identity only adds the
			// access-history side effect.
			r.With(auth.Optional).Get("/{id}", deps.Catalog.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Require, middleware.RequireAdmin)
				r.Post("/", deps.Catalog.Upload)
				r.Put("/{id}", deps.Catalog.Update)
				r.Delete("/{id}", deps.Catalog.Delete)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", deps.Viewing.ListHistory)
				r.Delete("/", deps.Viewing.ClearHistory)
				r.Post("/{id}", deps.Viewing.AddHistory)
				r.Delete("/{id}", deps.Viewing.DeleteHistory)
			})

			r.Route("/progress", func(r chi.Router) {
				r.Get("/{id}", deps.Viewing.GetProgress)
				r.Post("/{id}", deps.Viewing.SaveProgress)
			})

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", deps.Viewing.ListWatchlist)
				r.Post("/{id}", deps.Viewing.AddToWatchlist)
				r.Delete("/{id}", deps.Viewing.RemoveFromWatchlist)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Message(w, http.StatusNotFound, "page not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
