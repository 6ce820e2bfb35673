package state

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// SpotList returns the listed spots ordered by id.
func SpotList(s State) []domain.Spot {
	spots := make([]domain.Spot, 0, len(s.Spots.All))
	for _, spot := range s.Spots.All {
		spots = append(spots, spot)
	}
	slices.SortFunc(spots, func(a, b domain.Spot) int { return cmp.Compare(a.ID, b.ID) })
	return spots
}

// SpotsOwnedBy returns the listed spots whose owner is userID, ordered by id.
func SpotsOwnedBy(s State, userID int64) []domain.Spot {
	var owned []domain.Spot
	for _, spot := range SpotList(s) {
		if spot.OwnerID == userID {
			owned = append(owned, spot)
		}
	}
	return owned
}

// ReviewList returns the loaded reviews newest first.
func ReviewList(s State) []domain.Review {
	reviews := make([]domain.Review, 0, len(s.Reviews.Spot))
	for _, r := range s.Reviews.Spot {
		reviews = append(reviews, r)
	}
	slices.SortFunc(reviews, func(a, b domain.Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return reviews
}

// AverageStars is the arithmetic mean of the reviews' stars. ok is false when
// there are no reviews.
func AverageStars(reviews []domain.Review) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range reviews {
		total += r.Stars
	}
	return float64(total) / float64(len(reviews)), true
}

// RatingLabel formats the mean rating of reviews to one decimal, or "New".
func RatingLabel(reviews []domain.Review) string {
	avg, ok := AverageStars(reviews)
	if !ok {
		return "New"
	}
	return ratingText(avg)
}

// SpotRatingLabel formats the server-computed rating of a listed spot.
func SpotRatingLabel(spot domain.Spot) string {
	if spot.AvgRating == nil || spot.NumReviews == 0 {
		return "New"
	}
	return ratingText(*spot.AvgRating)
}

// ratingText formats to one decimal with halves rounded up, so 4.25 is "4.3".
func ratingText(avg float64) string {
	return fmt.Sprintf("%.1f", math.Floor(avg*10+0.5)/10)
}

func ReviewCountLabel(n int) string {
	if n == 1 {
		return "1 Review"
	}
	return fmt.Sprintf("%d Reviews", n)
}

func PriceLabel(price float64) string {
	return fmt.Sprintf("$%.2f night", price)
}

// ReviewDate renders a review timestamp as "Month YYYY".
func ReviewDate(t time.Time) string {
	return t.Format("January 2006")
}

func IsOwner(user *domain.User, spot *domain.Spot) bool {
	return user != nil && spot != nil && spot.OwnerID == user.ID
}

func HasReviewed(s State, userID int64) bool {
	for _, r := range s.Reviews.Spot {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// CanPostReview reports whether the session user may review the detail spot:
// signed in, not its owner, and without a review among the loaded ones.
func CanPostReview(s State) bool {
	user := s.Session.User
	spot := s.Spots.Detail
	if user == nil || spot == nil || IsOwner(user, spot) {
		return false
	}
	if s.Reviews.SpotID != spot.ID {
		return false
	}
	return !HasReviewed(s, user.ID)
}

func CanDeleteReview(user *domain.User, review domain.Review) bool {
	return user != nil && review.UserID == user.ID
}
