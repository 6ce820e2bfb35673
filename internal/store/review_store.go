package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// reviewRow is a review joined with its author's public profile.
type reviewRow struct {
	domain.Review
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
}

func (r *reviewRow) toReview() *domain.Review {
	review := r.Review
	review.User = &domain.PublicProfile{
		ID:        review.UserID,
		FirstName: r.AuthorFirstName,
		LastName:  r.AuthorLastName,
	}
	return &review
}

const reviewSelect = `
	SELECT r.id, r.spot_id, r.user_id, r.review, r.stars, r.created_at, r.updated_at,
		u.first_name AS author_first_name, u.last_name AS author_last_name
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

type ReviewStore struct {
	db *sqlx.DB
}

func NewReviewStore(db *sqlx.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func (s *ReviewStore) Create(ctx context.Context, spotID, userID int64, in domain.ReviewInput) (*domain.Review, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (spot_id, user_id, review, stars) VALUES (?, ?, ?, ?)
	`, spotID, userID, in.Body, in.Stars)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create review: %w", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := &reviewRow{}
	err := s.db.GetContext(ctx, row, reviewSelect+` WHERE r.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return row.toReview(), nil
}

// ListBySpotID returns the spot's reviews, newest first.
func (s *ReviewStore) ListBySpotID(ctx context.Context, spotID int64) ([]*domain.Review, error) {
	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, reviewSelect+`
		WHERE r.spot_id = ? ORDER BY r.created_at DESC, r.id DESC
	`, spotID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*domain.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, rows[i].toReview())
	}
	return reviews, nil
}

func (s *ReviewStore) ExistsForUser(ctx context.Context, spotID, userID int64) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM reviews WHERE spot_id = ? AND user_id = ?
	`, spotID, userID); err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	return n > 0, nil
}

func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
