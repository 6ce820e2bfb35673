package web

import (
	"net/http"

	"github.com/vbonduro/atozbnb/internal/domain"
)

func (s *Server) handleListSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.spots.ListSpots(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"Spots": spots})
}

func (s *Server) handleGetSpot(w http.ResponseWriter, r *http.Request) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	spot, err := s.spots.GetSpot(r.Context(), spotID)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spot": spot})
}

func (s *Server) handleCreateSpot(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var in domain.SpotInput
	if !decodeJSON(w, r, &in) {
		return
	}

	spot, err := s.spots.CreateSpot(r.Context(), user.ID, in)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"spot": spot})
}

func (s *Server) handleUpdateSpot(w http.ResponseWriter, r *http.Request, user *domain.User) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	var in domain.SpotInput
	if !decodeJSON(w, r, &in) {
		return
	}

	spot, err := s.spots.UpdateSpot(r.Context(), user.ID, spotID, in)
	if err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spot": spot})
}

func (s *Server) handleDeleteSpot(w http.ResponseWriter, r *http.Request, user *domain.User) {
	spotID, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id", nil)
		return
	}

	if err := s.spots.DeleteSpot(r.Context(), user.ID, spotID); err != nil {
		s.writeServiceError(w, r, err, "Spot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
}
