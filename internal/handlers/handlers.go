package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// Handler contains the HTTP handlers of the proxy API. Flight routes are
// public; ticket routes forward the caller's Authorization header unchanged.
// Successful payloads are relayed byte for byte.
type Handler struct {
	flights  apiclient.FlightsRelay
	tickets  apiclient.TicketsRelay
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(flights apiclient.FlightsRelay, tickets apiclient.TicketsRelay, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		flights:  flights,
		tickets:  tickets,
		validate: validate,
		logger:   logger,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondRaw writes a payload that is already JSON.
func respondRaw(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondUpstreamError maps an adapter error onto the proxy's status codes.
// notFound and failed are the messages for 404 and 5xx respectively.
func (h *Handler) respondUpstreamError(w http.ResponseWriter, r *http.Request, err error, notFound, failed string) {
	status := apiclient.StatusCode(err)
	switch status {
	case http.StatusNotFound:
		respondError(w, status, notFound)
	case http.StatusUnauthorized:
		msg := apiclient.ServerMessage(err)
		if msg == "" {
			msg = "Unauthorized"
		}
		respondError(w, status, msg)
	default:
		h.logger.ErrorContext(r.Context(), failed, "path", r.URL.Path, "error", err)
		respondError(w, status, failed)
	}
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	sort := models.ParseSortOrder(r.URL.Query().Get("sort"))
	flights, err := h.flights.ListFlightsRaw(r.Context(), sort)
	if err != nil {
		h.respondUpstreamError(w, r, err, "Flights not found", "Failed to fetch flights")
		return
	}
	respondRaw(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	flight, err := h.flights.GetFlightRaw(r.Context(), flightID)
	if err != nil {
		h.respondUpstreamError(w, r, err, "Flight not found", "Failed to fetch flight")
		return
	}
	respondRaw(w, http.StatusOK, flight)
}

// GetFlightSchedules handles GET /api/flights/{id}/schedules
func (h *Handler) GetFlightSchedules(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	query := r.URL.Query()
	dates, err := apiclient.DateRange{
		Start: query.Get("startDate"),
		End:   query.Get("endDate"),
	}.Normalize()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedules, err := h.flights.GetSchedulesRaw(r.Context(), flightID, dates)
	if err != nil {
		h.respondUpstreamError(w, r, err, "Flight not found", "Failed to fetch schedules")
		return
	}
	respondRaw(w, http.StatusOK, schedules)
}

func forwardAuth(r *http.Request) apiclient.CallOption {
	return apiclient.WithAuthorization(r.Header.Get("Authorization"))
}

// GetMyTickets handles GET /api/tickets
func (h *Handler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.MyTicketsRaw(r.Context(), forwardAuth(r))
	if err != nil {
		h.respondUpstreamError(w, r, err, "Tickets not found", "Failed to fetch tickets")
		return
	}
	respondRaw(w, http.StatusOK, tickets)
}

// CreateTicket handles POST /api/tickets
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	ticket, err := h.tickets.CreateTicketRaw(r.Context(), req, forwardAuth(r))
	if err != nil {
		h.respondUpstreamError(w, r, err, "Flight not found", "Failed to create ticket")
		return
	}

	respondRaw(w, http.StatusCreated, ticket)
}

// GetTicket handles GET /api/tickets/{id}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := mux.Vars(r)["id"]
	ticket, err := h.tickets.GetTicketRaw(r.Context(), ticketID, forwardAuth(r))
	if err != nil {
		h.respondUpstreamError(w, r, err, "Ticket not found", "Failed to fetch ticket")
		return
	}
	respondRaw(w, http.StatusOK, ticket)
}

// CancelTicket handles DELETE /api/tickets/{id}
func (h *Handler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := mux.Vars(r)["id"]
	if err := h.tickets.CancelTicket(r.Context(), ticketID, forwardAuth(r)); err != nil {
		h.respondUpstreamError(w, r, err, "Ticket not found", "Failed to delete ticket")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
