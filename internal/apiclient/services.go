package apiclient

import (
	"context"
	"encoding/json"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// AuthAPI is the auth service
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

// FlightsAPI is the flights service
type FlightsAPI interface {
	ListFlights(ctx context.Context, sort models.SortOrder) ([]models.Flight, error)
	GetFlight(ctx context.Context, id string) (*models.Flight, error)
	GetSchedules(ctx context.Context, flightID string, dates DateRange) ([]models.Schedule, error)
}

// TicketsAPI is the tickets service. Every operation requires credentials,
// passed as WithToken or WithAuthorization.
type TicketsAPI interface {
	MyTickets(ctx context.Context, opts ...CallOption) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, req models.CreateTicketRequest, opts ...CallOption) (*models.Ticket, error)
	GetTicket(ctx context.Context, id string, opts ...CallOption) (*models.Ticket, error)
	CancelTicket(ctx context.Context, id string, opts ...CallOption) error
}

// FlightsRelay returns flights service payloads without decoding them, for
// callers that only forward them.
type FlightsRelay interface {
	ListFlightsRaw(ctx context.Context, sort models.SortOrder) (json.RawMessage, error)
	GetFlightRaw(ctx context.Context, id string) (json.RawMessage, error)
	GetSchedulesRaw(ctx context.Context, flightID string, dates DateRange) (json.RawMessage, error)
}

// TicketsRelay returns the data member of tickets service envelopes without
// decoding it.
type TicketsRelay interface {
	MyTicketsRaw(ctx context.Context, opts ...CallOption) (json.RawMessage, error)
	CreateTicketRaw(ctx context.Context, req models.CreateTicketRequest, opts ...CallOption) (json.RawMessage, error)
	GetTicketRaw(ctx context.Context, id string, opts ...CallOption) (json.RawMessage, error)
	CancelTicket(ctx context.Context, id string, opts ...CallOption) error
}

var (
	_ AuthAPI      = (*AuthClient)(nil)
	_ FlightsAPI   = (*FlightClient)(nil)
	_ TicketsAPI   = (*TicketClient)(nil)
	_ FlightsRelay = (*FlightClient)(nil)
	_ TicketsRelay = (*TicketClient)(nil)
)
