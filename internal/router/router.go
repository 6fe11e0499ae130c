package router

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/handlers"
)

// Options configures the middleware chain
type Options struct {
	CORSOrigins []string
	Logger      *slog.Logger
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *RateLimiter
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware(opts.CORSOrigins))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/schedules", h.GetFlightSchedules).Methods(http.MethodGet, http.MethodOptions)

	// Tickets
	api.HandleFunc("/tickets", h.GetMyTickets).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tickets", h.CreateTicket).Methods(http.MethodPost)
	api.HandleFunc("/tickets/{id}", h.GetTicket).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tickets/{id}", h.CancelTicket).Methods(http.MethodDelete)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}
