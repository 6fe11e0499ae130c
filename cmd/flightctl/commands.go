package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/account"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/booking"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/tickets"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/validation"
)

const displayTime = "2006-01-02 15:04"

func newFlagSet(name string, a *app) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.notifier.w)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func argID(fs *pflag.FlagSet, what string) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%w: expected exactly one %s id", errUsage, what)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s id %q", errUsage, what, fs.Arg(0))
	}
	return id, nil
}

func printFieldErrors(w io.Writer, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
	}
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a)
	username := fs.StringP("username", "u", "", "username")
	password := fs.StringP("password", "p", "", "password (default: $FLIGHTCTL_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("FLIGHTCTL_PASSWORD")
	}

	err := a.accounts().Login(ctx, *username, *password)
	printFieldErrors(a.notifier.w, err)
	return err
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register", a)
	var in account.SignupInput
	fs.StringVar(&in.FullName, "name", "", "full name, also used as the username")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password, at least 8 characters")
	fs.StringVar(&in.ConfirmPassword, "confirm-password", "", "the same password again")
	fs.BoolVar(&in.AgreeTerms, "agree-terms", false, "accept the terms and conditions")
	if err := parse(fs, args); err != nil {
		return err
	}

	if in.Password != "" {
		strength, label := account.CheckPassword(in.Password)
		fmt.Fprintf(a.notifier.w, "password strength: %s (%d/4)\n", label, strength)
	}

	err := a.accounts().Register(ctx, in)
	printFieldErrors(a.notifier.w, err)
	return err
}

func runLogout(ctx context.Context, a *app, args []string) error {
	return a.accounts().Logout(ctx)
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	if !a.session.Authenticated() {
		return apiclient.MissingToken()
	}
	info := map[string]any{"username": a.session.Username()}
	if claims, ok := a.session.Claims(); ok {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			info["subject"] = sub
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			info["expiresAt"] = exp.Time.Format(time.RFC3339)
		}
	}
	if a.jsonOut {
		return a.printJSON(info)
	}
	fmt.Fprintf(a.out, "logged in as %s\n", info["username"])
	if exp, ok := info["expiresAt"]; ok {
		fmt.Fprintf(a.out, "token expires %s\n", exp)
	}
	return nil
}

func runFlights(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("flights", a)
	sortFlag := fs.String("sort", "asc", "sort by price: asc or desc")
	if err := parse(fs, args); err != nil {
		return err
	}

	flights, err := a.flights.ListFlights(ctx, models.ParseSortOrder(*sortFlag))
	if err != nil {
		return fmt.Errorf("failed to fetch flights: %w", err)
	}
	if a.jsonOut {
		return a.printJSON(flights)
	}
	return a.table("ID\tFLIGHT\tAIRLINE\tFROM\tTO\tPRICE\tSEATS", func(w io.Writer) {
		for _, f := range flights {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%d/%d\n",
				f.ID, f.FlightNumber, f.AirlineName, f.DepartureCity, f.ArrivalCity,
				f.Price, f.AvailableSeats, f.Capacity)
		}
	})
}

func runFlight(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("flight", a)
	var dates apiclient.DateRange
	fs.StringVar(&dates.Start, "start", "", "first departure date, YYYY-MM-DD")
	fs.StringVar(&dates.End, "end", "", "last departure date, YYYY-MM-DD")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, "flight")
	if err != nil {
		return err
	}
	key := strconv.FormatInt(id, 10)

	flight, err := a.flights.GetFlight(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to fetch flight: %w", err)
	}
	schedules, err := a.flights.GetSchedules(ctx, key, dates)
	if err != nil {
		return fmt.Errorf("failed to fetch schedules: %w", err)
	}

	if a.jsonOut {
		return a.printJSON(map[string]any{"flight": flight, "schedules": schedules})
	}
	fmt.Fprintf(a.out, "%s %s: %s -> %s, %.2f, %d of %d seats free\n\n",
		flight.AirlineName, flight.FlightNumber, flight.DepartureCity, flight.ArrivalCity,
		flight.Price, flight.AvailableSeats, flight.Capacity)
	return a.table("SCHEDULE\tDEPARTS\tARRIVES\tDURATION\tSTATUS", func(w io.Writer) {
		for _, s := range schedules {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				s.ID, s.DepartureTime.Format(displayTime), s.ArrivalTime.Format(displayTime),
				s.Duration(), s.FlightStatus)
		}
	})
}

func runBook(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("book", a)
	fields := []struct{ name, flag, usage string }{
		{booking.FieldFirstName, "first", "passenger first name"},
		{booking.FieldLastName, "last", "passenger last name"},
		{booking.FieldEmail, "email", "passenger email"},
		{booking.FieldPhone, "phone", "passenger phone number"},
		{booking.FieldDateOfBirth, "dob", "date of birth"},
		{booking.FieldNationality, "nationality", "nationality"},
		{booking.FieldPassportNumber, "passport", "passport number"},
	}
	values := make(map[string]*string, len(fields))
	for _, f := range fields {
		values[f.name] = fs.String(f.flag, "", f.usage)
	}
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, "flight")
	if err != nil {
		return err
	}

	wf := booking.NewWorkflow(a.flights, a.tickets, a.session, a.nav, a.notifier, a.logger)
	if err := wf.Load(ctx, strconv.FormatInt(id, 10)); err != nil {
		if wf.NotFound() {
			return fmt.Errorf("flight %d not found", id)
		}
		return err
	}

	for _, f := range fields {
		wf.SetField(f.name, *values[f.name])
	}

	flight, schedule := wf.Flight(), wf.Schedule()
	price := wf.PriceSummary()
	fmt.Fprintf(a.notifier.w, "%s %s on %s: fare %.2f + taxes %.2f + service %.2f = %.2f\n",
		flight.AirlineName, flight.FlightNumber, schedule.DepartureTime.Format(displayTime),
		price.BaseFare, price.TaxesAndFees, price.ServiceFee, price.Total)

	if err := wf.Submit(ctx); err != nil {
		printFieldErrors(a.notifier.w, err)
		return err
	}

	if a.jsonOut {
		return a.printJSON(wf.Ticket())
	}
	fmt.Fprintf(a.out, "ticket %d booked for %s\n", wf.Ticket().ID, wf.Ticket().PassengerName)
	return nil
}

func runTickets(ctx context.Context, a *app, args []string) error {
	list, err := a.tickets.ListMine(ctx)
	if err != nil {
		return err
	}
	buckets := tickets.Partition(list)
	if a.jsonOut {
		return a.printJSON(map[string][]models.Ticket{
			"upcoming":  buckets.Upcoming,
			"completed": buckets.Completed,
			"cancelled": buckets.Cancelled,
		})
	}

	for _, group := range []struct {
		title string
		list  []models.Ticket
	}{
		{"Upcoming", buckets.Upcoming},
		{"Completed", buckets.Completed},
		{"Cancelled", buckets.Cancelled},
	} {
		fmt.Fprintf(a.out, "%s (%d)\n", group.title, len(group.list))
		if len(group.list) == 0 {
			continue
		}
		if err := a.table("ID\tPASSENGER\tFLIGHT\tSCHEDULE\tPRICE\tBOOKED", func(w io.Writer) {
			for _, t := range group.list {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.2f\t%s\n",
					t.ID, t.PassengerName, t.FlightID, t.ScheduleID, t.Price,
					t.BookingTime.Format(displayTime))
			}
		}); err != nil {
			return err
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func runTicket(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("ticket", a)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, "ticket")
	if err != nil {
		return err
	}

	t, err := a.tickets.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.jsonOut {
		return a.printJSON(t)
	}
	seat := "unassigned"
	if t.SeatNumber != nil {
		seat = *t.SeatNumber
	}
	fmt.Fprintf(a.out, "ticket %d (%s)\npassenger: %s\nflight: %d schedule: %d seat: %s\nprice: %.2f\n",
		t.ID, t.Status, t.PassengerName, t.FlightID, t.ScheduleID, seat, t.Price)
	return nil
}

func runCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("cancel", a)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, "ticket")
	if err != nil {
		return err
	}

	if err := a.tickets.Cancel(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ticket %d cancelled\n", id)
	return nil
}
