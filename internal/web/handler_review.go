package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/atozbnb/internal/domain"
)

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	reviews, err := s.reviews.ListForSpot(r.Context(), spotID)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"Reviews": reviews})
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request, user *domain.User) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	var in domain.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}

	review, err := s.reviews.CreateReview(r.Context(), user.ID, spotID, in)
	if errors.Is(err, domain.ErrConflict) {
		writeError(w, http.StatusConflict, "User already has a review for this spot", nil)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request, user *domain.User) {
	reviewID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid review id", nil)
		return
	}

	if err := s.reviews.DeleteReview(r.Context(), user.ID, reviewID); err != nil {
		s.writeServiceError(w, r, err, "Review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}
