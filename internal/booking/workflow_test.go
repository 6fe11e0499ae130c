package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	apimocks "github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient/mocks"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/session"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/tickets"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/ui"
	uimocks "github.com/nikunjcodes/AirlineManagementSystem/internal/ui/mocks"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/validation"
)

type WorkflowTestSuite struct {
	suite.Suite
	ctx      context.Context
	flights  *apimocks.MockFlightsAPI
	api      *apimocks.MockTicketsAPI
	session  *session.Store
	manager  *tickets.Manager
	nav      *uimocks.MockNavigator
	notifier *uimocks.MockNotifier
	workflow *Workflow
}

func (s *WorkflowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.flights = new(apimocks.MockFlightsAPI)
	s.api = new(apimocks.MockTicketsAPI)
	s.session = session.NewStore()
	s.manager = tickets.NewManager(s.api, s.session, nil)
	s.nav = new(uimocks.MockNavigator)
	s.notifier = new(uimocks.MockNotifier)
	s.workflow = NewWorkflow(s.flights, s.manager, s.session, s.nav, s.notifier, nil)
}

func (s *WorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.flights.AssertExpectations(s.T())
	s.api.AssertExpectations(s.T())
	s.nav.AssertExpectations(s.T())
	s.notifier.AssertExpectations(s.T())
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func testFlight() *models.Flight {
	return &models.Flight{
		ID:             1,
		FlightNumber:   "AI101",
		AirlineName:    "Air India",
		DepartureCity:  "Delhi",
		ArrivalCity:    "Mumbai",
		Price:          450,
		Capacity:       180,
		AvailableSeats: 42,
	}
}

func testSchedules() []models.Schedule {
	return []models.Schedule{
		{ID: 12, FlightStatus: models.FlightStatusOnTime},
		{ID: 13, FlightStatus: models.FlightStatusScheduled},
	}
}

func (s *WorkflowTestSuite) load() {
	s.flights.On("GetFlight", mock.Anything, "1").Return(testFlight(), nil).Once()
	s.flights.On("GetSchedules", mock.Anything, "1", apiclient.DateRange{}).Return(testSchedules(), nil).Once()
	s.Require().NoError(s.workflow.Load(s.ctx, "1"))
	s.Require().Equal(StateReady, s.workflow.State())
}

func (s *WorkflowTestSuite) fillForm() {
	for field, value := range map[string]string{
		FieldFirstName:      "First",
		FieldLastName:       "Last",
		FieldEmail:          "first.last@example.com",
		FieldPhone:          "+91 98765 43210",
		FieldDateOfBirth:    "1990-01-01",
		FieldNationality:    "Indian",
		FieldPassportNumber: "P1234567",
	} {
		s.True(s.workflow.SetField(field, value).Valid, field)
	}
}

func (s *WorkflowTestSuite) TestLoad_UsesFirstSchedule() {
	s.load()

	s.Equal("AI101", s.workflow.Flight().FlightNumber)
	s.Equal(int64(12), s.workflow.Schedule().ID)
	s.Equal(PriceSummary{BaseFare: 450, TaxesAndFees: 45, ServiceFee: 15, Total: 510}, s.workflow.PriceSummary())
}

func (s *WorkflowTestSuite) TestLoad_EmptySchedulesFails() {
	s.flights.On("GetFlight", mock.Anything, "1").Return(testFlight(), nil).Once()
	s.flights.On("GetSchedules", mock.Anything, "1", apiclient.DateRange{}).Return([]models.Schedule{}, nil).Once()
	s.notifier.On("Notify", ui.Error("Error", MsgLoadFailed)).Once()

	err := s.workflow.Load(s.ctx, "1")

	s.ErrorIs(err, ErrNoSchedule)
	s.Equal(StateLoadFailed, s.workflow.State())
	s.Equal(ui.PathFlights, s.workflow.BackLink())
	s.False(s.workflow.NotFound())
	s.False(s.workflow.CanSubmit())
}

func (s *WorkflowTestSuite) TestLoad_NotFoundIsDistinguished() {
	s.flights.On("GetFlight", mock.Anything, "99").
		Return(nil, &apiclient.NotFoundError{Path: "/flights/99"}).Once()
	s.flights.On("GetSchedules", mock.Anything, "99", apiclient.DateRange{}).Return([]models.Schedule{}, nil).Maybe()
	s.notifier.On("Notify", ui.Error("Error", MsgLoadFailed)).Once()

	err := s.workflow.Load(s.ctx, "99")

	s.Error(err)
	s.Equal(StateLoadFailed, s.workflow.State())
	s.True(s.workflow.NotFound())
}

func (s *WorkflowTestSuite) TestCanSubmit_RequiresCompleteForm() {
	s.load()
	s.False(s.workflow.CanSubmit())

	s.fillForm()
	s.True(s.workflow.CanSubmit())

	s.workflow.SetField(FieldPassportNumber, "")
	s.False(s.workflow.CanSubmit())
}

func (s *WorkflowTestSuite) TestSubmit_WithoutTokenMakesNoRequest() {
	s.load()
	s.fillForm()
	s.notifier.On("Notify", ui.Error("Authentication Required", MsgLoginRequired)).Once()
	s.nav.On("Navigate", ui.PathAuth).Once()

	err := s.workflow.Submit(s.ctx)

	s.True(apiclient.IsAuth(err))
	s.Equal(StateFailed, s.workflow.State())
	s.Equal(FailureAuth, s.workflow.Failure())
	s.api.AssertNotCalled(s.T(), "CreateTicket", mock.Anything, mock.Anything)
}

func (s *WorkflowTestSuite) TestSubmit_WithoutTokenInvalidFormStillRedirects() {
	s.load()
	s.fillForm()
	s.workflow.SetField(FieldEmail, "not-an-email")
	s.notifier.On("Notify", ui.Error("Authentication Required", MsgLoginRequired)).Once()
	s.nav.On("Navigate", ui.PathAuth).Once()

	err := s.workflow.Submit(s.ctx)

	s.True(apiclient.IsAuth(err))
	var verr *validation.ValidationError
	s.False(errors.As(err, &verr))
	s.Equal(StateFailed, s.workflow.State())
	s.Equal(FailureAuth, s.workflow.Failure())
	s.api.AssertNotCalled(s.T(), "CreateTicket", mock.Anything, mock.Anything)
}

func (s *WorkflowTestSuite) TestSubmit_Success() {
	s.Require().NoError(s.session.Set("a.b.c", "jdoe"))
	s.load()
	s.fillForm()

	expected := models.CreateTicketRequest{FlightID: 1, ScheduleID: 12, PassengerName: "First Last", Price: 450}
	created := &models.Ticket{ID: 77, FlightID: 1, ScheduleID: 12, PassengerName: "First Last", Price: 450, Status: models.TicketStatusBooked}
	s.api.On("CreateTicket", mock.Anything, expected).Return(created, nil).Once()
	s.notifier.On("Notify", ui.Info("Booking Successful!", MsgBooked)).Once()
	s.nav.On("Navigate", ui.PathTickets).Once()

	s.Require().NoError(s.workflow.Submit(s.ctx))

	s.Equal(StateSucceeded, s.workflow.State())
	s.Equal(int64(77), s.workflow.Ticket().ID)
	s.Equal([]string{"Bearer a.b.c"}, s.api.Authorizations())
	s.Require().Len(s.manager.Tickets(), 1)
	s.Equal(int64(77), s.manager.Tickets()[0].ID)

	s.ErrorIs(s.workflow.Submit(s.ctx), ErrNotReady)
}

func (s *WorkflowTestSuite) TestSubmit_AuthRejectedByServer() {
	s.Require().NoError(s.session.Set("a.b.c", "jdoe"))
	s.load()
	s.fillForm()
	s.api.On("CreateTicket", mock.Anything, mock.Anything).
		Return(nil, &apiclient.AuthError{Status: 401, Message: "expired"}).Once()
	s.notifier.On("Notify", ui.Error("Booking Failed", MsgLoginRequired)).Once()
	s.nav.On("Navigate", ui.PathAuth).Once()

	err := s.workflow.Submit(s.ctx)

	s.True(apiclient.IsAuth(err))
	s.Equal(FailureAuth, s.workflow.Failure())
	s.Empty(s.manager.Tickets())
}

func (s *WorkflowTestSuite) TestSubmit_ServiceFailureStaysOnPage() {
	s.Require().NoError(s.session.Set("a.b.c", "jdoe"))
	s.load()
	s.fillForm()
	s.api.On("CreateTicket", mock.Anything, mock.Anything).
		Return(nil, &apiclient.ServiceError{Status: 500, Message: "boom"}).Once()
	s.notifier.On("Notify", ui.Error("Booking Failed", MsgBookingFailed)).Once()

	err := s.workflow.Submit(s.ctx)

	s.True(apiclient.IsService(err))
	s.Equal(StateFailed, s.workflow.State())
	s.Equal(FailureService, s.workflow.Failure())
	s.nav.AssertNotCalled(s.T(), "Navigate", mock.Anything)

	s.Require().NoError(s.workflow.Resume())
	s.Equal(StateReady, s.workflow.State())
	s.True(s.workflow.CanSubmit())
}

func (s *WorkflowTestSuite) TestSubmit_InvalidFormBlocksSubmission() {
	s.Require().NoError(s.session.Set("a.b.c", "jdoe"))
	s.load()
	s.fillForm()
	s.workflow.SetField(FieldEmail, "not-an-email")

	err := s.workflow.Submit(s.ctx)

	var verr *validation.ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("Please enter a valid email", verr.Message(FieldEmail))
	s.Equal(StateReady, s.workflow.State())
	s.api.AssertNotCalled(s.T(), "CreateTicket", mock.Anything, mock.Anything)
}

func (s *WorkflowTestSuite) TestSubmit_RejectsSecondSubmitWhileInFlight() {
	s.Require().NoError(s.session.Set("a.b.c", "jdoe"))
	s.load()
	s.fillForm()

	release := make(chan struct{})
	created := &models.Ticket{ID: 5, Status: models.TicketStatusBooked}
	s.api.On("CreateTicket", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(created, nil).Once()
	s.notifier.On("Notify", ui.Info("Booking Successful!", MsgBooked)).Once()
	s.nav.On("Navigate", ui.PathTickets).Once()

	done := make(chan error, 1)
	go func() { done <- s.workflow.Submit(s.ctx) }()

	s.Eventually(func() bool {
		return s.workflow.State() == StateSubmitting
	}, time.Second, time.Millisecond)
	s.False(s.workflow.CanSubmit())
	s.ErrorIs(s.workflow.Submit(s.ctx), ErrNotReady)

	close(release)
	s.NoError(<-done)
	s.Equal(StateSucceeded, s.workflow.State())
}
