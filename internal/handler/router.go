// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the API route tree. Outer middleware (timeout, rate
// limiting) is attached by the caller.
func NewRouter(configH *ConfigHandler, prefsH *PrefsHandler, healthH *HealthHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentType)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", configH.Get)
			r.Put("/", configH.Save)
			r.Get("/search", configH.Search)
			r.Post("/items", configH.AddItem)
			r.Put("/items/{id}", configH.UpdateItem)
			r.Delete("/items/{id}", configH.DeleteItem)
		})

		r.Route("/prefs", func(r chi.Router) {
			r.Get("/toggler", prefsH.GetToggler)
			r.Put("/toggler", prefsH.SetToggler)
		})
	})

	return r
}

// jsonContentType sets the response content type for all API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
