package apiclient

import (
	"context"
	"net/http"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
)

// AuthClient talks to the auth service.
type AuthClient struct {
	client *Client
}

// NewAuthClient creates an AuthClient
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.client.Call(ctx, http.MethodPost, "/api/auth/public/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return a.client.Call(ctx, http.MethodPost, "/api/auth/public/register", req, nil)
}
