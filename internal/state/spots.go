package state

import (
	"maps"
	"slices"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// SpotsState keeps the list mapping and the detail slot apart so a detail
// fetch never overwrites the list entry of the same spot.
type SpotsState struct {
	All map[int64]domain.Spot
	// Detail is the most recently loaded spot detail for DetailRequest.
	Detail        *domain.Spot
	DetailRequest int64
}

type LoadSpots struct{ Spots []domain.Spot }

type RequestSpotDetails struct{ ID int64 }

type LoadSpotDetails struct{ Spot domain.Spot }

type AddSpot struct{ Spot domain.Spot }

type UpdateSpot struct{ Spot domain.Spot }

type RemoveSpot struct{ ID int64 }

// RefreshSpotImages carries a spot's image list after an image was attached.
// The detail slot takes the list whole; the list entry only its preview URL.
type RefreshSpotImages struct {
	SpotID int64
	Images []domain.SpotImage
}

func (LoadSpots) Type() string          { return "spots/LOAD_SPOTS" }
func (RequestSpotDetails) Type() string { return "spots/REQUEST_SPOT_DETAILS" }
func (LoadSpotDetails) Type() string    { return "spots/LOAD_SPOT_DETAILS" }
func (AddSpot) Type() string            { return "spots/ADD_SPOT" }
func (UpdateSpot) Type() string         { return "spots/UPDATE_SPOT" }
func (RemoveSpot) Type() string         { return "spots/REMOVE_SPOT" }
func (RefreshSpotImages) Type() string  { return "spots/REFRESH_SPOT_IMAGES" }

func reduceSpots(s SpotsState, action Action) SpotsState {
	switch a := action.(type) {
	case LoadSpots:
		all := make(map[int64]domain.Spot, len(a.Spots))
		for _, spot := range a.Spots {
			all[spot.ID] = spot
		}
		s.All = all
	case RequestSpotDetails:
		s.DetailRequest = a.ID
		if s.Detail != nil && s.Detail.ID != a.ID {
			s.Detail = nil
		}
	case LoadSpotDetails:
		if a.Spot.ID != s.DetailRequest {
			return s
		}
		spot := a.Spot
		s.Detail = &spot
	case AddSpot:
		s.All = withSpot(s.All, a.Spot)
	case UpdateSpot:
		s.All = withSpot(s.All, a.Spot)
		if s.Detail != nil && s.Detail.ID == a.Spot.ID {
			spot := a.Spot
			if spot.Owner == nil {
				spot.Owner = s.Detail.Owner
			}
			if spot.SpotImages == nil {
				spot.SpotImages = s.Detail.SpotImages
			}
			s.Detail = &spot
		}
	case RemoveSpot:
		if _, ok := s.All[a.ID]; ok {
			all := maps.Clone(s.All)
			delete(all, a.ID)
			s.All = all
		}
		if s.Detail != nil && s.Detail.ID == a.ID {
			s.Detail = nil
		}
	case RefreshSpotImages:
		if spot, ok := s.All[a.SpotID]; ok {
			if url := previewURL(a.Images, ""); url != "" && url != spot.PreviewImage {
				spot.PreviewImage = url
				s.All = withSpot(s.All, spot)
			}
		}
		if s.Detail == nil || s.Detail.ID != a.SpotID {
			return s
		}
		spot := *s.Detail
		spot.SpotImages = slices.Clone(a.Images)
		spot.PreviewImage = previewURL(a.Images, spot.PreviewImage)
		s.Detail = &spot
	}
	return s
}

func withSpot(all map[int64]domain.Spot, spot domain.Spot) map[int64]domain.Spot {
	next := make(map[int64]domain.Spot, len(all)+1)
	maps.Copy(next, all)
	next[spot.ID] = spot
	return next
}

// previewURL returns the URL of the preview image in images, or fallback.
func previewURL(images []domain.SpotImage, fallback string) string {
	for _, img := range images {
		if img.Preview {
			return img.URL
		}
	}
	return fallback
}
