package state

import (
	"maps"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// ReviewsState holds the reviews of the spot in SpotID, keyed by review id.
type ReviewsState struct {
	SpotID int64
	Spot   map[int64]domain.Review
}

type RequestReviews struct{ SpotID int64 }

type LoadReviews struct {
	SpotID  int64
	Reviews []domain.Review
}

type AddReview struct{ Review domain.Review }

type RemoveReview struct{ ID int64 }

func (RequestReviews) Type() string { return "reviews/REQUEST_REVIEWS" }
func (LoadReviews) Type() string    { return "reviews/LOAD_REVIEWS" }
func (AddReview) Type() string      { return "reviews/ADD_REVIEW" }
func (RemoveReview) Type() string   { return "reviews/REMOVE_REVIEW" }

func reduceReviews(s ReviewsState, action Action) ReviewsState {
	switch a := action.(type) {
	case RequestReviews:
		if a.SpotID != s.SpotID {
			s.Spot = nil
		}
		s.SpotID = a.SpotID
	case LoadReviews:
		if a.SpotID != s.SpotID {
			return s
		}
		next := make(map[int64]domain.Review, len(a.Reviews))
		for _, r := range a.Reviews {
			next[r.ID] = r
		}
		s.Spot = next
	case AddReview:
		if a.Review.SpotID != s.SpotID {
			return s
		}
		next := make(map[int64]domain.Review, len(s.Spot)+1)
		maps.Copy(next, s.Spot)
		next[a.Review.ID] = a.Review
		s.Spot = next
	case RemoveReview:
		if _, ok := s.Spot[a.ID]; ok {
			next := maps.Clone(s.Spot)
			delete(next, a.ID)
			s.Spot = next
		}
	case RemoveSpot:
		if a.ID == s.SpotID {
			s.Spot = nil
		}
	}
	return s
}
