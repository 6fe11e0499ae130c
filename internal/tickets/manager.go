package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// TokenSource supplies the current session token
type TokenSource interface {
	Token() (string, bool)
}

// Buckets is the status projection shown on the tickets page
type Buckets struct {
	Upcoming  []models.Ticket
	Completed []models.Ticket
	Cancelled []models.Ticket
}

// Manager lists, creates and cancels the user's tickets and keeps a local
// copy of the last known list. The server stays authoritative: the cache is
// only changed after a call succeeds.
type Manager struct {
	api    apiclient.TicketsAPI
	tokens TokenSource
	logger *slog.Logger

	mu      sync.RWMutex
	tickets []models.Ticket
}

// NewManager creates a Manager
func NewManager(api apiclient.TicketsAPI, tokens TokenSource, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

func (m *Manager) token() (apiclient.CallOption, error) {
	token, ok := m.tokens.Token()
	if !ok {
		return nil, apiclient.MissingToken()
	}
	return apiclient.WithToken(token), nil
}

// ListMine fetches the user's tickets and replaces the cached list.
func (m *Manager) ListMine(ctx context.Context) ([]models.Ticket, error) {
	auth, err := m.token()
	if err != nil {
		return nil, err
	}

	list, err := m.api.MyTickets(ctx, auth)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to fetch tickets", "error", err)
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	m.mu.Lock()
	m.tickets = append([]models.Ticket(nil), list...)
	m.mu.Unlock()

	return list, nil
}

// Get fetches a single ticket. The cache is refreshed if it holds the ticket.
func (m *Manager) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	auth, err := m.token()
	if err != nil {
		return nil, err
	}

	ticket, err := m.api.GetTicket(ctx, strconv.FormatInt(id, 10), auth)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
	}

	m.mu.Lock()
	for i := range m.tickets {
		if m.tickets[i].ID == ticket.ID {
			m.tickets[i] = *ticket
		}
	}
	m.mu.Unlock()

	return ticket, nil
}

// Create books a ticket and appends the server's record to the cache.
func (m *Manager) Create(ctx context.Context, req models.CreateTicketRequest) (*models.Ticket, error) {
	auth, err := m.token()
	if err != nil {
		return nil, err
	}

	ticket, err := m.api.CreateTicket(ctx, req, auth)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to create ticket",
			"flight_id", req.FlightID,
			"schedule_id", req.ScheduleID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	m.mu.Lock()
	m.tickets = append(m.tickets, *ticket)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "ticket booked", "ticket_id", ticket.ID, "flight_id", ticket.FlightID)
	return ticket, nil
}

// Cancel asks the tickets service to cancel id. Only after it succeeds does
// the cached ticket move to CANCELLED; every other entry is left as is. A
// failed cancel leaves the cache untouched and can be retried.
func (m *Manager) Cancel(ctx context.Context, id int64) error {
	auth, err := m.token()
	if err != nil {
		return err
	}

	if err := m.api.CancelTicket(ctx, strconv.FormatInt(id, 10), auth); err != nil {
		m.logger.ErrorContext(ctx, "failed to cancel ticket", "ticket_id", id, "error", err)
		return fmt.Errorf("failed to cancel ticket %d: %w", id, err)
	}

	m.mu.Lock()
	for i := range m.tickets {
		if m.tickets[i].ID == id {
			m.tickets[i].Status = models.TicketStatusCancelled
		}
	}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "ticket cancelled", "ticket_id", id)
	return nil
}

// Tickets returns a copy of the cached list.
func (m *Manager) Tickets() []models.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Ticket(nil), m.tickets...)
}

// Partition splits tickets by status, preserving order. Tickets with an
// unknown status are dropped.
func Partition(tickets []models.Ticket) Buckets {
	var b Buckets
	for _, t := range tickets {
		switch t.Status {
		case models.TicketStatusBooked:
			b.Upcoming = append(b.Upcoming, t)
		case models.TicketStatusCompleted:
			b.Completed = append(b.Completed, t)
		case models.TicketStatusCancelled:
			b.Cancelled = append(b.Cancelled, t)
		}
	}
	return b
}
