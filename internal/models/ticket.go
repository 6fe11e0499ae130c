package models

// TicketStatus is the server-authoritative lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "BOOKED"
	TicketStatusCompleted TicketStatus = "COMPLETED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Ticket represents a booked seat linking a user, a flight and a schedule
type Ticket struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"userId"`
	FlightID      int64        `json:"flightId"`
	ScheduleID    int64        `json:"scheduleId"`
	PassengerName string       `json:"passengerName"`
	SeatNumber    *string      `json:"seatNumber"`
	Price         float64      `json:"price"`
	Status        TicketStatus `json:"status"`
	BookingTime   Timestamp    `json:"bookingTime"`
	LastUpdated   Timestamp    `json:"lastUpdated"`
	Flight        *Flight      `json:"flight,omitempty"`
	Schedule      *Schedule    `json:"schedule,omitempty"`
}

// CreateTicketRequest is the body sent to the tickets service. Price is
// copied from the flight record and is advisory only: the tickets service
// must price the ticket itself.
type CreateTicketRequest struct {
	FlightID      int64   `json:"flightId" validate:"required,gt=0"`
	ScheduleID    int64   `json:"scheduleId" validate:"required,gt=0"`
	PassengerName string  `json:"passengerName" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
}

// Envelope wraps every tickets service response
type Envelope[T any] struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}
