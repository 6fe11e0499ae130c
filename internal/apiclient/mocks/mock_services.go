package mocks

import (
	"context"
	"encoding/json"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAuthAPI is a mock implementation of apiclient.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockFlightsAPI is a mock implementation of apiclient.FlightsAPI
type MockFlightsAPI struct {
	mock.Mock
}

func (m *MockFlightsAPI) ListFlights(ctx context.Context, sort models.SortOrder) ([]models.Flight, error) {
	args := m.Called(ctx, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *MockFlightsAPI) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockFlightsAPI) GetSchedules(ctx context.Context, flightID string, dates apiclient.DateRange) ([]models.Schedule, error) {
	args := m.Called(ctx, flightID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Schedule), args.Error(1)
}

// MockTicketsAPI is a mock implementation of apiclient.TicketsAPI. Call
// options are not forwarded to the expectations; use Authorizations
// to inspect them.
type MockTicketsAPI struct {
	mock.Mock
	authorizations []string
}

func (m *MockTicketsAPI) record(opts []apiclient.CallOption) {
	m.authorizations = append(m.authorizations, apiclient.ResolveAuthorization(opts...))
}

// Authorizations returns the Authorization header each call would have sent.
func (m *MockTicketsAPI) Authorizations() []string {
	return m.authorizations
}

func (m *MockTicketsAPI) MyTickets(ctx context.Context, opts ...apiclient.CallOption) ([]models.Ticket, error) {
	m.record(opts)
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockTicketsAPI) CreateTicket(ctx context.Context, req models.CreateTicketRequest, opts ...apiclient.CallOption) (*models.Ticket, error) {
	m.record(opts)
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketsAPI) GetTicket(ctx context.Context, id string, opts ...apiclient.CallOption) (*models.Ticket, error) {
	m.record(opts)
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketsAPI) CancelTicket(ctx context.Context, id string, opts ...apiclient.CallOption) error {
	m.record(opts)
	args := m.Called(ctx, id)
	return args.Error(0)
}

func raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	switch v := args.Get(0).(type) {
	case string:
		return json.RawMessage(v), args.Error(1)
	default:
		return v.(json.RawMessage), args.Error(1)
	}
}

// MockFlightsRelay is a mock implementation of apiclient.FlightsRelay.
// Return values may be given as a string or json.RawMessage.
type MockFlightsRelay struct {
	mock.Mock
}

func (m *MockFlightsRelay) ListFlightsRaw(ctx context.Context, sort models.SortOrder) (json.RawMessage, error) {
	return raw(m.Called(ctx, sort))
}

func (m *MockFlightsRelay) GetFlightRaw(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(m.Called(ctx, id))
}

func (m *MockFlightsRelay) GetSchedulesRaw(ctx context.Context, flightID string, dates apiclient.DateRange) (json.RawMessage, error) {
	return raw(m.Called(ctx, flightID, dates))
}

// MockTicketsRelay is a mock implementation of apiclient.TicketsRelay. Like
// MockTicketsAPI it records call options in Authorizations.
type MockTicketsRelay struct {
	mock.Mock
	authorizations []string
}

func (m *MockTicketsRelay) record(opts []apiclient.CallOption) {
	m.authorizations = append(m.authorizations, apiclient.ResolveAuthorization(opts...))
}

// Authorizations returns the Authorization header each call would have sent.
func (m *MockTicketsRelay) Authorizations() []string {
	return m.authorizations
}

func (m *MockTicketsRelay) MyTicketsRaw(ctx context.Context, opts ...apiclient.CallOption) (json.RawMessage, error) {
	m.record(opts)
	return raw(m.Called(ctx))
}

func (m *MockTicketsRelay) CreateTicketRaw(ctx context.Context, req models.CreateTicketRequest, opts ...apiclient.CallOption) (json.RawMessage, error) {
	m.record(opts)
	return raw(m.Called(ctx, req))
}

func (m *MockTicketsRelay) GetTicketRaw(ctx context.Context, id string, opts ...apiclient.CallOption) (json.RawMessage, error) {
	m.record(opts)
	return raw(m.Called(ctx, id))
}

func (m *MockTicketsRelay) CancelTicket(ctx context.Context, id string, opts ...apiclient.CallOption) error {
	m.record(opts)
	args := m.Called(ctx, id)
	return args.Error(0)
}
