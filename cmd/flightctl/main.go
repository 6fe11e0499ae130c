// flightctl is a terminal front end for the flight booking services. It
// keeps the login session in a file under the user's config directory, so
// commands can be run one at a time like pages of the web app.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/account"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/config"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/session"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/tickets"
)

// errUsage marks errors caused by bad arguments; main exits 2 for them.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":    {"log in and store the session", runLogin},
	"register": {"create an account and log in", runRegister},
	"logout":   {"clear the stored session", runLogout},
	"whoami":   {"show the logged in user", runWhoami},
	"flights":  {"list flights by price", runFlights},
	"flight":   {"show a flight and its schedules", runFlight},
	"book":     {"book a ticket on a flight", runBook},
	"tickets":  {"list your tickets", runTickets},
	"ticket":   {"show one ticket", runTicket},
	"cancel":   {"cancel a ticket", runCancel},
}

// app wires the clients and workflows one command needs.
type app struct {
	cfg      config.Config
	out      io.Writer
	logger   *slog.Logger
	jsonOut  bool
	session  *session.Store
	auth     apiclient.AuthAPI
	flights  apiclient.FlightsAPI
	tickets  *tickets.Manager
	nav      *terminalNavigator
	notifier *terminalNotifier
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.LogFormat = "text"
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}

	var jsonOut bool
	flagSet := pflag.NewFlagSet("flightctl", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&cfg.AuthServiceURL, "auth-url", cfg.AuthServiceURL, "auth service base URL")
	flagSet.StringVar(&cfg.FlightsServiceURL, "flights-url", cfg.FlightsServiceURL, "flights service base URL")
	flagSet.StringVar(&cfg.TicketsServiceURL, "tickets-url", cfg.TicketsServiceURL, "tickets service base URL")
	flagSet.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "where the login session is kept (default: user config dir)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flagSet.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-request timeout (0 means none)")
	flagSet.BoolVar(&jsonOut, "json", false, "print results as JSON")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(stderr, flagSet)
		if help {
			return nil
		}
		return fmt.Errorf("%w: missing command", errUsage)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	name := flagSet.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	a, err := newApp(cfg, stdout, stderr, jsonOut)
	if err != nil {
		return err
	}
	return cmd.run(ctx, a, flagSet.Args()[1:])
}

func newApp(cfg config.Config, stdout, stderr io.Writer, jsonOut bool) (*app, error) {
	logger := cfg.NewLogger(stderr)

	path := cfg.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := session.NewStore(
		session.WithPersister(session.NewFilePersister(path)),
		session.WithLogger(logger),
	)
	if err := store.Restore(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := func(base string) *apiclient.Client {
		return apiclient.New(base, apiclient.WithHTTPClient(httpClient), apiclient.WithLogger(logger))
	}

	return &app{
		cfg:      cfg,
		out:      stdout,
		logger:   logger,
		jsonOut:  jsonOut,
		session:  store,
		auth:     apiclient.NewAuthClient(client(cfg.AuthServiceURL)),
		flights:  apiclient.NewFlightClient(client(cfg.FlightsServiceURL)),
		tickets:  tickets.NewManager(apiclient.NewTicketClient(client(cfg.TicketsServiceURL)), store, logger),
		nav:      &terminalNavigator{w: stderr},
		notifier: &terminalNotifier{w: stderr},
	}, nil
}

func (a *app) accounts() *account.Service {
	return account.NewService(a.auth, a.session, a.nav, a.notifier, a.logger)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `flightctl - search flights, book and manage tickets.

Usage:
  flightctl [global flags] <command> [flags] [args]

Commands:
`)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, `
Examples:
  flightctl login -u jdoe
  flightctl flights --sort desc
  flightctl book 12 --first Jane --last Doe --email jane@example.com ...
  flightctl cancel 7

Global flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
