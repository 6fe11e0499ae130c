package models

import (
	"fmt"
	"time"
)

// Flight represents a flight as served by the flights service
type Flight struct {
	ID             int64   `json:"id"`
	FlightNumber   string  `json:"flightNumber"`
	AirlineName    string  `json:"airlineName"`
	DepartureCity  string  `json:"departureCity"`
	ArrivalCity    string  `json:"arrivalCity"`
	Price          float64 `json:"price"`
	Capacity       int     `json:"capacity"`
	AvailableSeats int     `json:"availableSeats"`
}

// FlightStatus is the operational status of a schedule. It is owned by the
// flights service and never changed locally.
type FlightStatus string

const (
	FlightStatusOnTime    FlightStatus = "ON_TIME"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

// Schedule is a dated departure/arrival instance of a Flight
type Schedule struct {
	ID            int64        `json:"id"`
	Flight        *Flight      `json:"flight,omitempty"`
	DepartureTime Timestamp    `json:"departureTime"`
	ArrivalTime   Timestamp    `json:"arrivalTime"`
	FlightStatus  FlightStatus `json:"flightStatus"`
}

// Duration renders the block time of a schedule as "<h>h <m>m".
func (s Schedule) Duration() string {
	diff := s.ArrivalTime.Sub(s.DepartureTime.Time)
	if diff < 0 {
		diff = 0
	}
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// SortOrder orders the flight listing by price
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder normalizes a user supplied sort value. Anything other than
// "desc" sorts ascending, which is what the flights service defaults to.
func ParseSortOrder(v string) SortOrder {
	if SortOrder(v) == SortDesc {
		return SortDesc
	}
	return SortAsc
}
