package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/domain"
)

// userRepository is the subset of store.UserStore that UserService requires.
type userRepository interface {
	Create(ctx context.Context, in domain.SignupInput, hashedPassword string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByCredential(ctx context.Context, credential string) (*domain.User, error)
	Taken(ctx context.Context, email, username string) (bool, bool, error)
}

type UserService struct {
	userStore userRepository
	logger    *slog.Logger
}

func NewUserService(userStore userRepository, logger *slog.Logger) *UserService {
	return &UserService{userStore: userStore, logger: logger}
}

// Signup creates an account. A taken email or username yields an error that
// matches both domain.ErrConflict and domain.FieldErrors.
func (s *UserService) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}

	if err := s.checkAvailable(ctx, in); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.Create(ctx, in, hashed)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent signup; report which field collided.
		if cerr := s.checkAvailable(ctx, in); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// checkAvailable returns a conflict carrying field errors when the email or
// username is already registered.
func (s *UserService) checkAvailable(ctx context.Context, in domain.SignupInput) error {
	emailTaken, usernameTaken, err := s.userStore.Taken(ctx, in.Email, in.Username)
	if err != nil {
		return err
	}
	if !emailTaken && !usernameTaken {
		return nil
	}
	fields := domain.FieldErrors{}
	if emailTaken {
		fields["email"] = "User with that email already exists"
	}
	if usernameTaken {
		fields["username"] = "User with that username already exists"
	}
	return fmt.Errorf("%w: %w", domain.ErrConflict, fields)
}

// Login checks the credential (email or username) and password.
func (s *UserService) Login(ctx context.Context, in domain.LoginInput) (*domain.User, error) {
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}

	user, err := s.userStore.GetByCredential(ctx, strings.TrimSpace(in.Credential))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
