package resource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/state"
)

type SignupForm struct {
	domain.SignupInput
	ConfirmPassword string
}

func (f SignupForm) Validate() domain.FieldErrors {
	fields := f.SignupInput.Validate()
	if f.ConfirmPassword != f.Password {
		if fields == nil {
			fields = domain.FieldErrors{}
		}
		fields["confirmPassword"] = "Confirm Password field must be the same as the Password field"
	}
	return fields
}

type Session struct {
	client fetcher
	store  *state.Store
	logger *slog.Logger
}

func NewSession(c fetcher, store *state.Store, logger *slog.Logger) *Session {
	return &Session{client: c, store: store, logger: logger}
}

type sessionBody struct {
	User *domain.User `json:"user"`
}

// Restore loads the user of the current session cookie, if any.
func (s *Session) Restore(ctx context.Context) (*domain.User, error) {
	var body sessionBody
	if err := s.client.Do(ctx, http.MethodGet, "/api/session", nil, &body); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.SetUser{User: body.User})
	return body.User, nil
}

func (s *Session) Login(ctx context.Context, credential, password string) (*domain.User, error) {
	in := domain.LoginInput{Credential: credential, Password: password}
	if fields := in.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	var body sessionBody
	if err := s.client.Do(ctx, http.MethodPost, "/api/session", in, &body); err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, fmt.Errorf("user missing from login response")
	}
	s.store.Dispatch(state.SetUser{User: body.User})
	s.logger.Debug("logged in", "user_id", body.User.ID)
	return body.User, nil
}

func (s *Session) Signup(ctx context.Context, form SignupForm) (*domain.User, error) {
	if fields := form.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	var body sessionBody
	if err := s.client.Do(ctx, http.MethodPost, "/api/users", form.SignupInput, &body); err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, fmt.Errorf("user missing from signup response")
	}
	s.store.Dispatch(state.SetUser{User: body.User})
	return body.User, nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Do(ctx, http.MethodDelete, "/api/session", nil, nil); err != nil {
		return err
	}
	s.store.Dispatch(state.RemoveUser{})
	return nil
}

// User returns the signed in user, or nil.
func (s *Session) User() *domain.User {
	return s.store.State().Session.User
}
