package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/ui"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/validation"
)

// Fixed charges added on top of the fare in the price summary.
const (
	TaxesAndFees = 45.0
	ServiceFee   = 15.0
)

// User-facing messages
const (
	MsgLoadFailed     = "Failed to load flight details. Please try again."
	MsgLoginRequired  = "Please log in to book tickets"
	MsgBooked         = "Your ticket has been booked successfully."
	MsgBookingFailed  = "There was an error processing your booking. Please try again."
	MsgFlightNotFound = "Flight not found"
)

// State is a step of one booking attempt
type State int

const (
	StateLoading State = iota
	StateLoadFailed
	StateReady
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoadFailed:
		return "load_failed"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure says why a submission ended in StateFailed
type Failure int

const (
	FailureNone Failure = iota
	FailureAuth
	FailureService
)

var (
	// ErrNotReady is returned by Submit outside StateReady, including while a
	// submission is already in flight.
	ErrNotReady = errors.New("booking is not ready for submission")
	// ErrNoSchedule is the load failure for a flight without schedules.
	ErrNoSchedule = errors.New("flight has no schedules")
)

// TokenSource supplies the current session token
type TokenSource interface {
	Token() (string, bool)
}

// TicketCreator books tickets. *tickets.Manager satisfies it.
type TicketCreator interface {
	Create(ctx context.Context, req models.CreateTicketRequest) (*models.Ticket, error)
}

// PriceSummary itemises what the user is shown before booking.
type PriceSummary struct {
	BaseFare     float64 `json:"baseFare"`
	TaxesAndFees float64 `json:"taxesAndFees"`
	ServiceFee   float64 `json:"serviceFee"`
	Total        float64 `json:"total"`
}

// Workflow drives a single booking attempt from loading the flight to
// creating the ticket.
type Workflow struct {
	flights  apiclient.FlightsAPI
	tickets  TicketCreator
	tokens   TokenSource
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	failure  Failure
	loadErr  error
	flight   *models.Flight
	schedule *models.Schedule
	ticket   *models.Ticket
	form     *validation.Form
}

// NewWorkflow creates a Workflow in StateLoading
func NewWorkflow(flights apiclient.FlightsAPI, tickets TicketCreator, tokens TokenSource, nav ui.Navigator, notifier ui.Notifier, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		flights:  flights,
		tickets:  tickets,
		tokens:   tokens,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
		state:    StateLoading,
		form:     NewPassengerForm(),
	}
}

// Load fetches the flight and its schedules in parallel. The first schedule
// becomes the one being booked. Any failure, or a flight with no schedules,
// leaves the workflow in StateLoadFailed.
func (w *Workflow) Load(ctx context.Context, flightID string) error {
	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return ErrNotReady
	}
	w.state = StateLoading
	w.failure = FailureNone
	w.loadErr = nil
	w.flight, w.schedule, w.ticket = nil, nil, nil
	w.mu.Unlock()

	var (
		flight    *models.Flight
		schedules []models.Schedule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := w.flights.GetFlight(gctx, flightID)
		if err != nil {
			return fmt.Errorf("failed to get flight %s: %w", flightID, err)
		}
		flight = f
		return nil
	})
	g.Go(func() error {
		s, err := w.flights.GetSchedules(gctx, flightID, apiclient.DateRange{})
		if err != nil {
			return fmt.Errorf("failed to get schedules for flight %s: %w", flightID, err)
		}
		schedules = s
		return nil
	})

	err := g.Wait()
	if err == nil && len(schedules) == 0 {
		err = ErrNoSchedule
	}
	if err == nil && flight == nil {
		err = &apiclient.NotFoundError{Path: "/flights/" + flightID, Message: MsgFlightNotFound}
	}

	w.mu.Lock()
	if err != nil {
		w.state = StateLoadFailed
		w.loadErr = err
		w.mu.Unlock()

		w.logger.ErrorContext(ctx, "failed to load booking", "flight_id", flightID, "error", err)
		w.notifier.Notify(ui.Error("Error", MsgLoadFailed))
		return err
	}

	w.flight = flight
	w.schedule = &schedules[0]
	w.state = StateReady
	w.mu.Unlock()
	return nil
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Failure returns why the last submission failed.
func (w *Workflow) Failure() Failure {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}

// LoadError returns the error that put the workflow in StateLoadFailed.
func (w *Workflow) LoadError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadErr
}

// NotFound reports whether loading failed because the flight does not exist.
func (w *Workflow) NotFound() bool {
	return apiclient.IsNotFound(w.LoadError())
}

// BackLink is where the user goes from a failed load.
func (w *Workflow) BackLink() string {
	return ui.PathFlights
}

// Flight returns the loaded flight, or nil.
func (w *Workflow) Flight() *models.Flight {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flight
}

// Schedule returns the schedule being booked, or nil.
func (w *Workflow) Schedule() *models.Schedule {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.schedule
}

// Ticket returns the ticket created by a successful submission.
func (w *Workflow) Ticket() *models.Ticket {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticket
}

// Form exposes the passenger form.
func (w *Workflow) Form() *validation.Form {
	return w.form
}

// SetField updates a passenger field and returns its validation result.
func (w *Workflow) SetField(name, value string) validation.Result {
	return w.form.Set(name, value)
}

// CanSubmit reports whether the form is complete and nothing is in flight.
func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	ready := w.state == StateReady
	w.mu.Unlock()
	return ready && w.form.Complete()
}

// PriceSummary itemises the fare of the loaded flight.
func (w *Workflow) PriceSummary() PriceSummary {
	w.mu.Lock()
	defer w.mu.Unlock()

	var base float64
	if w.flight != nil {
		base = w.flight.Price
	}
	return PriceSummary{
		BaseFare:     base,
		TaxesAndFees: TaxesAndFees,
		ServiceFee:   ServiceFee,
		Total:        base + TaxesAndFees + ServiceFee,
	}
}

// Resume returns a failed submission to StateReady so the user can try
// again. Nothing is retried automatically.
func (w *Workflow) Resume() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateFailed {
		return ErrNotReady
	}
	w.state = StateReady
	w.failure = FailureNone
	return nil
}

// Submit books the ticket. It is accepted only in StateReady; a second call
// while the first is in flight returns ErrNotReady. The session token is
// checked before the form: without one no request is sent and the user is
// sent to log in whatever the form holds.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateReady {
		w.mu.Unlock()
		return ErrNotReady
	}
	if _, ok := w.tokens.Token(); !ok {
		w.state = StateFailed
		w.failure = FailureAuth
		w.mu.Unlock()
		w.notifier.Notify(ui.Error("Authentication Required", MsgLoginRequired))
		w.nav.Navigate(ui.PathAuth)
		return apiclient.MissingToken()
	}
	if err := w.form.Validate(); err != nil {
		w.mu.Unlock()
		return err
	}

	values := w.form.Values()
	req := models.CreateTicketRequest{
		FlightID:      w.flight.ID,
		ScheduleID:    w.schedule.ID,
		PassengerName: values[FieldFirstName] + " " + values[FieldLastName],
		Price:         w.flight.Price,
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	ticket, err := w.tickets.Create(ctx, req)

	w.mu.Lock()
	if err != nil {
		w.state = StateFailed
		if apiclient.IsAuth(err) {
			w.failure = FailureAuth
		} else {
			w.failure = FailureService
		}
		failure := w.failure
		w.mu.Unlock()

		w.logger.ErrorContext(ctx, "booking failed",
			"flight_id", req.FlightID,
			"schedule_id", req.ScheduleID,
			"error", err,
		)
		if failure == FailureAuth {
			w.notifier.Notify(ui.Error("Booking Failed", MsgLoginRequired))
			w.nav.Navigate(ui.PathAuth)
		} else {
			w.notifier.Notify(ui.Error("Booking Failed", MsgBookingFailed))
		}
		return err
	}

	w.state = StateSucceeded
	w.ticket = ticket
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "booking succeeded",
		"ticket_id", ticket.ID,
		"flight_id", req.FlightID,
	)
	w.notifier.Notify(ui.Info("Booking Successful!", MsgBooked))
	w.nav.Navigate(ui.PathTickets)
	return nil
}
