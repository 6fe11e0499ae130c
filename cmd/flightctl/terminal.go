package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/ui"
)

// commandFor maps a route to the command that shows it.
var commandFor = map[string]string{
	ui.PathAuth:    "flightctl login",
	ui.PathFlights: "flightctl flights",
	ui.PathTickets: "flightctl tickets",
}

type terminalNavigator struct {
	w io.Writer
}

func (n *terminalNavigator) Navigate(path string) {
	if cmd, ok := commandFor[path]; ok {
		fmt.Fprintf(n.w, "next: %s\n", cmd)
	}
}

type terminalNotifier struct {
	w io.Writer
}

func (n *terminalNotifier) Notify(msg ui.Notification) {
	prefix := "✓"
	if msg.Level == ui.LevelError {
		prefix = "✗"
	}
	fmt.Fprintf(n.w, "%s %s: %s\n", prefix, msg.Title, msg.Message)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}
