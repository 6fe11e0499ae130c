package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// fakeBackend serves the auth, flights and tickets APIs from one server.
type fakeBackend struct {
	mu      sync.Mutex
	tickets []models.Ticket
	created []models.CreateTicketRequest
	auth    []string
}

func (b *fakeBackend) routes() http.Handler {
	r := mux.NewRouter()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	r.HandleFunc("/api/auth/public/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret12" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{Token: "a.b.c"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/flights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Flight{{ID: 1, FlightNumber: "AI101", AirlineName: "Air India", Price: 450}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/flights/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Flight{ID: 1, FlightNumber: "AI101", AirlineName: "Air India", Price: 450})
	}).Methods(http.MethodGet)
	r.HandleFunc("/flights/1/schedules", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":12,"departureTime":"2024-06-15T08:00:00","arrivalTime":"2024-06-15T20:30:00","flightStatus":"ON_TIME"}]`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTicketRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.auth = append(b.auth, r.Header.Get("Authorization"))
		b.created = append(b.created, req)
		t := models.Ticket{
			ID: int64(100 + len(b.tickets)), FlightID: req.FlightID, ScheduleID: req.ScheduleID,
			PassengerName: req.PassengerName, Price: req.Price, Status: models.TicketStatusBooked,
		}
		b.tickets = append(b.tickets, t)
		writeJSON(w, http.StatusCreated, models.Envelope[models.Ticket]{Status: "success", Data: t})
	}).Methods(http.MethodPost)
	r.HandleFunc("/tickets/my-tickets", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, models.Envelope[[]models.Ticket]{Data: b.tickets})
	}).Methods(http.MethodGet)
	r.HandleFunc("/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.tickets {
			if mux.Vars(r)["id"] == "100" && b.tickets[i].ID == 100 {
				b.tickets[i].Status = models.TicketStatusCancelled
				writeJSON(w, http.StatusOK, models.Envelope[any]{Status: "success"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Ticket not found"})
	}).Methods(http.MethodDelete)

	return r
}

type harness struct {
	t       *testing.T
	server  *httptest.Server
	backend *fakeBackend
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{"FLIGHT_CONFIG", "LOG_LEVEL", "LOG_FORMAT", "SESSION_FILE", "HTTP_TIMEOUT", "FLIGHTCTL_PASSWORD"} {
		t.Setenv(key, "")
	}
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.routes())
	t.Cleanup(server.Close)
	return &harness{
		t:       t,
		server:  server,
		backend: backend,
		session: filepath.Join(t.TempDir(), "session.json"),
	}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	global := []string{
		"--auth-url", h.server.URL,
		"--flights-url", h.server.URL,
		"--tickets-url", h.server.URL,
		"--session-file", h.session,
	}
	err := run(context.Background(), append(global, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestFlightctl_BookWithoutLoginSendsNothing(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("book", "1",
		"--first", "First", "--last", "Last", "--email", "first@example.com",
		"--phone", "555-0100", "--dob", "1990-01-01", "--nationality", "IN", "--passport", "P123")

	require.Error(t, err)
	assert.Contains(t, stderr, "Please log in to book tickets")
	assert.Contains(t, stderr, "next: flightctl login")
	assert.Empty(t, h.backend.created)
}

func TestFlightctl_LoginBookListCancel(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("login", "-u", "jdoe", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, stderr, "Bad credentials")

	_, stderr, err = h.run("login", "-u", "jdoe", "-p", "secret12")
	require.NoError(t, err)
	assert.Contains(t, stderr, "You have successfully logged in")

	stdout, _, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in as jdoe")

	stdout, stderr, err = h.run("book", "1",
		"--first", "First", "--last", "Last", "--email", "first@example.com",
		"--phone", "555-0100", "--dob", "1990-01-01", "--nationality", "IN", "--passport", "P123")
	require.NoError(t, err)
	assert.Contains(t, stderr, "= 510.00")
	assert.Contains(t, stdout, "ticket 100 booked for First Last")
	assert.Equal(t, []models.CreateTicketRequest{{FlightID: 1, ScheduleID: 12, PassengerName: "First Last", Price: 450}}, h.backend.created)
	assert.Equal(t, []string{"Bearer a.b.c"}, h.backend.auth)

	stdout, _, err = h.run("tickets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Upcoming (1)")
	assert.Contains(t, stdout, "Cancelled (0)")

	stdout, _, err = h.run("cancel", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ticket 100 cancelled")

	stdout, _, err = h.run("--json", "tickets")
	require.NoError(t, err)
	var buckets map[string][]models.Ticket
	require.NoError(t, json.Unmarshal([]byte(stdout), &buckets))
	assert.Len(t, buckets["cancelled"], 1)
	assert.Empty(t, buckets["upcoming"])

	_, _, err = h.run("logout")
	require.NoError(t, err)
	_, _, err = h.run("whoami")
	assert.Error(t, err)
}

func TestFlightctl_FlightDetails(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := h.run("flight", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Air India AI101")
	assert.Contains(t, stdout, "12h 30m")
	assert.Contains(t, stdout, "ON_TIME")

	stdout, _, err = h.run("flights", "--sort", "desc")
	require.NoError(t, err)
	assert.Contains(t, stdout, "AI101")
}

func TestFlightctl_Usage(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run()
	assert.ErrorIs(t, err, errUsage)

	_, _, err = h.run("fly-me-to-the-moon")
	assert.ErrorIs(t, err, errUsage)

	_, _, err = h.run("cancel", "abc")
	assert.ErrorIs(t, err, errUsage)

	_, stderr, err := h.run("--help")
	assert.NoError(t, err)
	assert.Contains(t, stderr, "Commands:")
}
