package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/atozbnb/internal/domain"
)

const userColumns = `id, email, username, first_name, last_name, hashed_password, created_at, updated_at`

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, in domain.SignupInput, hashedPassword string) (*domain.User, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name, hashed_password)
		VALUES (?, ?, ?, ?, ?)
	`, in.Email, in.Username, in.FirstName, in.LastName, hashedPassword)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create user: %w", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByCredential looks a user up by email or username, case-insensitively.
func (s *UserStore) GetByCredential(ctx context.Context, credential string) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.GetContext(ctx, user, `
		SELECT `+userColumns+` FROM users WHERE email = ? OR username = ? LIMIT 1
	`, credential, credential)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Taken reports which of email and username already belong to a user.
func (s *UserStore) Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var row struct {
		Email    int `db:"email"`
		Username int `db:"username"`
	}
	err = s.db.GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE email = ?)    AS email,
			(SELECT COUNT(*) FROM users WHERE username = ?) AS username
	`, email, username)
	if err != nil {
		return false, false, fmt.Errorf("failed to check existing users: %w", err)
	}
	return row.Email > 0, row.Username > 0, nil
}
