package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// reviewRepository is the subset of store.ReviewStore that ReviewService requires.
type reviewRepository interface {
	Create(ctx context.Context, spotID, userID int64, in domain.ReviewInput) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListBySpotID(ctx context.Context, spotID int64) ([]*domain.Review, error)
	ExistsForUser(ctx context.Context, spotID, userID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// spotLookup is the subset of store.SpotStore that ReviewService requires.
type spotLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
}

type ReviewService struct {
	reviewStore reviewRepository
	spotStore   spotLookup
	logger      *slog.Logger
}

func NewReviewService(reviewStore reviewRepository, spotStore spotLookup, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviewStore: reviewStore, spotStore: spotStore, logger: logger}
}

// ListForSpot returns the spot's reviews, newest first.
func (s *ReviewService) ListForSpot(ctx context.Context, spotID int64) ([]*domain.Review, error) {
	if _, err := s.spot(ctx, spotID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewStore.ListBySpotID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

// CreateReview posts userID's review of a spot. Owners may not review their own
// spot and each user reviews a spot at most once.
func (s *ReviewService) CreateReview(ctx context.Context, userID, spotID int64, in domain.ReviewInput) (*domain.Review, error) {
	in.Body = strings.TrimSpace(in.Body)
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}

	spot, err := s.spot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID == userID {
		return nil, domain.ErrForbidden
	}

	exists, err := s.reviewStore.ExistsForUser(ctx, spotID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: user already has a review for this spot", domain.ErrConflict)
	}

	review, err := s.reviewStore.Create(ctx, spotID, userID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("review created", "review_id", review.ID, "spot_id", spotID, "user_id", userID, "stars", in.Stars)
	return review, nil
}

// DeleteReview removes a review written by userID.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	review, err := s.reviewStore.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return domain.ErrNotFound
	}
	if review.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.reviewStore.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	s.logger.Info("review deleted", "review_id", reviewID, "spot_id", review.SpotID, "user_id", userID)
	return nil
}

func (s *ReviewService) spot(ctx context.Context, spotID int64) (*domain.Spot, error) {
	spot, err := s.spotStore.GetByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	if spot == nil {
		return nil, domain.ErrNotFound
	}
	return spot, nil
}
