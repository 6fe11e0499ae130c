package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

const dateLayout = "2006-01-02"

// DateRange filters schedules by departure date. Either bound may be empty;
// when only one is given the flights service treats it as a single day.
type DateRange struct {
	Start string
	End   string
}

// Normalize fills a missing bound from the other one and checks the format.
func (d DateRange) Normalize() (DateRange, error) {
	if d.Start != "" && d.End == "" {
		d.End = d.Start
	} else if d.Start == "" && d.End != "" {
		d.Start = d.End
	}
	for _, v := range []string{d.Start, d.End} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return DateRange{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
		}
	}
	return d, nil
}

func (d DateRange) query() string {
	params := url.Values{}
	if d.Start != "" {
		params.Set("startDate", d.Start)
	}
	if d.End != "" {
		params.Set("endDate", d.End)
	}
	return params.Encode()
}

// FlightClient talks to the flights service. Its responses are bare JSON.
type FlightClient struct {
	client *Client
}

// NewFlightClient creates a FlightClient
func NewFlightClient(client *Client) *FlightClient {
	return &FlightClient{client: client}
}

func (f *FlightClient) ListFlights(ctx context.Context, sort models.SortOrder) ([]models.Flight, error) {
	raw, err := f.ListFlightsRaw(ctx, sort)
	if err != nil {
		return nil, err
	}
	var flights []models.Flight
	if err := decodeData(raw, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (f *FlightClient) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	raw, err := f.GetFlightRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	var flight models.Flight
	if err := decodeData(raw, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (f *FlightClient) GetSchedules(ctx context.Context, flightID string, dates DateRange) ([]models.Schedule, error) {
	raw, err := f.GetSchedulesRaw(ctx, flightID, dates)
	if err != nil {
		return nil, err
	}
	var schedules []models.Schedule
	if err := decodeData(raw, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListFlightsRaw returns the flights service payload as sent. An empty
// body becomes [].
func (f *FlightClient) ListFlightsRaw(ctx context.Context, sort models.SortOrder) (json.RawMessage, error) {
	path := "/flights"
	if sort != "" {
		path += "?sort=" + url.QueryEscape(string(sort))
	}
	var raw json.RawMessage
	if err := f.client.Call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return orEmptyList(raw), nil
}

// GetFlightRaw returns one flight as sent. An empty body is a 404.
func (f *FlightClient) GetFlightRaw(ctx context.Context, id string) (json.RawMessage, error) {
	path := "/flights/" + url.PathEscape(id)
	var raw json.RawMessage
	if err := f.client.Call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, &NotFoundError{Path: path, Message: "Flight not found"}
	}
	return raw, nil
}

// GetSchedulesRaw returns the schedules of a flight as sent.
func (f *FlightClient) GetSchedulesRaw(ctx context.Context, flightID string, dates DateRange) (json.RawMessage, error) {
	dates, err := dates.Normalize()
	if err != nil {
		return nil, err
	}
	path := "/flights/" + url.PathEscape(flightID) + "/schedules"
	if q := dates.query(); q != "" {
		path += "?" + q
	}
	var raw json.RawMessage
	if err := f.client.Call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return orEmptyList(raw), nil
}
