package api

import (
	"net/http"
	"route-consolidation-service/internal/api/handlers"
	"route-consolidation-service/internal/ports"
	"route-consolidation-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Dependencies of the HTTP layer. Handlers see only ports and services.
type Deps struct {
	Store               ports.ParcelStore
	Alerts              ports.AlertStore
	SLA                 *services.SLAService
	Routes              *services.RouteService
	SafetyMarginMinutes int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	parcels := &handlers.ParcelHandler{Store: d.Store, SLA: d.SLA, DefaultMargin: d.SafetyMarginMinutes}
	sla := &handlers.SLAHandler{SLA: d.SLA, AlertStore: d.Alerts, DefaultMargin: d.SafetyMarginMinutes}
	health := &handlers.HealthHandler{Alerts: d.Alerts}
	routes := &handlers.RouteHandler{SLA: d.SLA, Routes: d.Routes, DefaultMargin: d.SafetyMarginMinutes}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", health.Check)

	r.Route("/parcels", func(r chi.Router) {
		r.Get("/", parcels.List)
		r.Get("/{id}", parcels.Get)
		r.Post("/{id}/sla-check", parcels.SLACheck)
		r.Post("/{id}/transitions", parcels.Transition)
	})

	r.Route("/sla", func(r chi.Router) {
		r.Post("/validate", sla.Validate)
		r.Post("/deadline", sla.Deadline)
		r.Get("/at-risk", sla.AtRisk)
		r.Get("/alerts", sla.Alerts)
		r.Get("/compliance", sla.Compliance)
	})

	r.Route("/routes", func(r chi.Router) {
		r.Post("/impact", routes.Impact)
		r.Post("/optimize", routes.Optimize)
		r.Post("/recommend", routes.Recommend)
	})

	return r
}
