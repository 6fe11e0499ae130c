package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// TicketClient talks to the tickets service and unwraps its {data: ...}
// envelope so callers only see bare values.
type TicketClient struct {
	client *Client
}

// NewTicketClient creates a TicketClient
func NewTicketClient(client *Client) *TicketClient {
	return &TicketClient{client: client}
}

func (t *TicketClient) MyTickets(ctx context.Context, opts ...CallOption) ([]models.Ticket, error) {
	raw, err := t.MyTicketsRaw(ctx, opts...)
	if err != nil {
		return nil, err
	}
	tickets := []models.Ticket{}
	if err := decodeData(raw, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (t *TicketClient) CreateTicket(ctx context.Context, req models.CreateTicketRequest, opts ...CallOption) (*models.Ticket, error) {
	raw, err := t.CreateTicketRaw(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := decodeData(raw, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketClient) GetTicket(ctx context.Context, id string, opts ...CallOption) (*models.Ticket, error) {
	raw, err := t.GetTicketRaw(ctx, id, opts...)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	if err := decodeData(raw, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (t *TicketClient) CancelTicket(ctx context.Context, id string, opts ...CallOption) error {
	return t.client.Call(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil, nil, opts...)
}

// MyTicketsRaw returns the caller's tickets exactly as the service sent
// them inside the envelope. A missing list becomes [].
func (t *TicketClient) MyTicketsRaw(ctx context.Context, opts ...CallOption) (json.RawMessage, error) {
	data, err := t.data(ctx, http.MethodGet, "/tickets/my-tickets", nil, opts...)
	if err != nil {
		return nil, err
	}
	return orEmptyList(data), nil
}

func (t *TicketClient) CreateTicketRaw(ctx context.Context, req models.CreateTicketRequest, opts ...CallOption) (json.RawMessage, error) {
	data, err := t.data(ctx, http.MethodPost, "/tickets", req, opts...)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, &ServiceError{Status: http.StatusOK, Message: "ticket missing from response"}
	}
	return data, nil
}

func (t *TicketClient) GetTicketRaw(ctx context.Context, id string, opts ...CallOption) (json.RawMessage, error) {
	path := "/tickets/" + url.PathEscape(id)
	data, err := t.data(ctx, http.MethodGet, path, nil, opts...)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, &NotFoundError{Path: path, Message: "Ticket not found"}
	}
	return data, nil
}

func (t *TicketClient) data(ctx context.Context, method, path string, body any, opts ...CallOption) (json.RawMessage, error) {
	var env models.Envelope[json.RawMessage]
	if err := t.client.Call(ctx, method, path, body, &env, opts...); err != nil {
		return nil, err
	}
	return env.Data, nil
}
