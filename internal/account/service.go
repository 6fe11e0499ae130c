package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/models"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/ui"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/validation"
)

const (
	MsgLoggedIn       = "You have successfully logged in"
	MsgLoginFailed    = "Invalid username or password"
	MsgAccountCreated = "Your account has been created successfully"
	MsgSignupFailed   = "Something went wrong. Please try again."
	MsgTermsRequired  = "Please agree to the terms and conditions"
	MsgLoggedOut      = "You have been logged out"
)

// ErrTermsNotAccepted is returned by Register when the terms box is unticked.
var ErrTermsNotAccepted = errors.New("terms and conditions not accepted")

// SessionStore is the part of the session the account flows write.
type SessionStore interface {
	Set(token, username string) error
	Clear() error
}

// SignupInput is everything the sign-up page collects
type SignupInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	AgreeTerms      bool
}

// Service logs users in and out and creates accounts.
type Service struct {
	auth     apiclient.AuthAPI
	session  SessionStore
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *slog.Logger
}

// NewService creates a Service
func NewService(auth apiclient.AuthAPI, session SessionStore, nav ui.Navigator, notifier ui.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		auth:     auth,
		session:  session,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
	}
}

// Login authenticates and stores the returned token with username. A token
// that is not shaped like a JWT is rejected and nothing is stored.
func (s *Service) Login(ctx context.Context, username, password string) error {
	form := NewLoginForm()
	form.Set(FieldUsername, username)
	form.Set(FieldPassword, password)
	if err := form.Validate(); err != nil {
		return err
	}

	if err := s.login(ctx, username, password); err != nil {
		s.logger.WarnContext(ctx, "login failed", "username", username, "error", err)
		s.notifier.Notify(ui.Error("Error", messageOr(err, MsgLoginFailed)))
		return err
	}

	s.logger.InfoContext(ctx, "user logged in", "username", username)
	s.notifier.Notify(ui.Info("Success", MsgLoggedIn))
	s.nav.Navigate(ui.PathHome)
	return nil
}

func (s *Service) login(ctx context.Context, username, password string) error {
	resp, err := s.auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if err := s.session.Set(resp.Token, username); err != nil {
		return fmt.Errorf("invalid token received from server: %w", err)
	}
	return nil
}

// Register creates the account and then logs in with the full name as the
// username.
func (s *Service) Register(ctx context.Context, in SignupInput) error {
	form := NewSignupForm()
	form.Set(FieldFullName, in.FullName)
	form.Set(FieldEmail, in.Email)
	form.Set(FieldPassword, in.Password)
	form.Set(FieldConfirmPassword, in.ConfirmPassword)

	err := form.Validate()
	if !in.AgreeTerms {
		s.notifier.Notify(ui.Error("Error", MsgTermsRequired))
		if err == nil {
			return ErrTermsNotAccepted
		}
		return errors.Join(err, ErrTermsNotAccepted)
	}
	if err != nil {
		return err
	}

	req := models.RegisterRequest{Username: in.FullName, Email: in.Email, Password: in.Password}
	if err := s.auth.Register(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "registration failed", "username", in.FullName, "error", err)
		s.notifier.Notify(ui.Error("Error", messageOr(err, MsgSignupFailed)))
		return fmt.Errorf("failed to register: %w", err)
	}
	s.notifier.Notify(ui.Info("Success", MsgAccountCreated))

	if err := s.login(ctx, in.FullName, in.Password); err != nil {
		s.logger.WarnContext(ctx, "login after registration failed", "username", in.FullName, "error", err)
		s.notifier.Notify(ui.Error("Error", messageOr(err, MsgSignupFailed)))
		return err
	}

	s.logger.InfoContext(ctx, "user registered", "username", in.FullName)
	s.nav.Navigate(ui.PathHome)
	return nil
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.Clear(); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session", "error", err)
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.notifier.Notify(ui.Info("Success", MsgLoggedOut))
	s.nav.Navigate(ui.PathHome)
	return nil
}

// CheckPassword scores a sign-up password for the strength meter.
func CheckPassword(password string) (int, string) {
	strength := validation.PasswordStrength(password)
	return strength, validation.StrengthLabel(strength)
}

func messageOr(err error, fallback string) string {
	if msg := apiclient.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}
