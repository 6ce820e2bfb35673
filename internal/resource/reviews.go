package resource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/state"
)

// MinReviewLength is the minimum number of characters in a trimmed review.
const MinReviewLength = 10

type ReviewForm struct {
	Body  string
	Stars int
}

func (f ReviewForm) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	if utf8.RuneCountInString(strings.TrimSpace(f.Body)) < MinReviewLength {
		fields["review"] = fmt.Sprintf("Review must be at least %d characters", MinReviewLength)
	}
	if f.Stars < 1 || f.Stars > 5 {
		fields["stars"] = "Stars must be an integer from 1 to 5"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type Reviews struct {
	client fetcher
	store  *state.Store
	logger *slog.Logger
}

func NewReviews(c fetcher, store *state.Store, logger *slog.Logger) *Reviews {
	return &Reviews{client: c, store: store, logger: logger}
}

// ListForSpot replaces the loaded reviews with those of spotID, newest first.
func (r *Reviews) ListForSpot(ctx context.Context, spotID int64) ([]domain.Review, error) {
	r.store.Dispatch(state.RequestReviews{SpotID: spotID})

	var body struct {
		Reviews []domain.Review `json:"Reviews"`
	}
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/spots/%d/reviews", spotID), nil, &body); err != nil {
		return nil, err
	}
	r.store.Dispatch(state.LoadReviews{SpotID: spotID, Reviews: body.Reviews})
	return body.Reviews, nil
}

// Create posts a review. The form is checked before any request is sent.
func (r *Reviews) Create(ctx context.Context, spotID int64, form ReviewForm) (*domain.Review, error) {
	if fields := form.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	var review domain.Review
	in := domain.ReviewInput{Body: strings.TrimSpace(form.Body), Stars: form.Stars}
	if err := r.client.Do(ctx, http.MethodPost, fmt.Sprintf("/api/spots/%d/reviews", spotID), in, &review); err != nil {
		return nil, err
	}
	if review.SpotID == 0 {
		review.SpotID = spotID
	}
	r.store.Dispatch(state.AddReview{Review: review})
	r.logger.Debug("review created", "review_id", review.ID, "spot_id", spotID)
	return &review, nil
}

func (r *Reviews) Remove(ctx context.Context, id int64) error {
	if err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), nil, nil); err != nil {
		return err
	}
	r.store.Dispatch(state.RemoveReview{ID: id})
	return nil
}

// All returns the loaded reviews newest first.
func (r *Reviews) All() []domain.Review {
	return state.ReviewList(r.store.State())
}

// RatingLabel is the mean of the loaded reviews to one decimal, or "New".
func (r *Reviews) RatingLabel() string {
	return state.RatingLabel(r.All())
}

func (r *Reviews) CountLabel() string {
	return state.ReviewCountLabel(len(r.store.State().Reviews.Spot))
}
