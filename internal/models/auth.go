package models

// LoginRequest is sent to the auth service
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by the auth service
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates a new account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
