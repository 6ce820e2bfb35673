package view

import (
	"context"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/state"
)

// SpotCard is one tile of a spot list.
type SpotCard struct {
	ID           int64
	Name         string
	Location     string
	Price        string
	Rating       string
	PreviewImage string
}

func cardFor(spot domain.Spot) SpotCard {
	return SpotCard{
		ID:           spot.ID,
		Name:         spot.Name,
		Location:     spot.City + ", " + spot.State,
		Price:        state.PriceLabel(spot.Price),
		Rating:       state.SpotRatingLabel(spot),
		PreviewImage: spot.PreviewImage,
	}
}

// SpotsList is the landing page listing every spot.
type SpotsList struct {
	app    *App
	Status Status
}

func NewSpotsList(app *App) *SpotsList {
	return &SpotsList{app: app}
}

func (v *SpotsList) Mount(ctx context.Context) {
	v.Status.begin()
	_, err := v.app.Spots.List(ctx)
	v.Status.Record(err)
}

func (v *SpotsList) Cards() []SpotCard {
	spots := v.app.Spots.All()
	cards := make([]SpotCard, 0, len(spots))
	for _, spot := range spots {
		cards = append(cards, cardFor(spot))
	}
	return cards
}

// SpotDetails shows one spot with its images, owner and reviews.
type SpotDetails struct {
	app     *App
	SpotID  int64
	Status  Status
	Confirm Confirm
}

func NewSpotDetails(app *App, spotID int64) *SpotDetails {
	return &SpotDetails{app: app, SpotID: spotID}
}

// Mount loads the spot and its reviews.
func (v *SpotDetails) Mount(ctx context.Context) {
	v.Status.begin()
	if _, err := v.app.Spots.GetDetails(ctx, v.SpotID); err != nil {
		v.Status.Record(err)
		return
	}
	_, err := v.app.Reviews.ListForSpot(ctx, v.SpotID)
	v.Status.Record(err)
}

// Spot returns the loaded spot when it is the one this screen shows.
func (v *SpotDetails) Spot() *domain.Spot {
	spot := v.app.Spots.Detail()
	if spot == nil || spot.ID != v.SpotID {
		return nil
	}
	return spot
}

func (v *SpotDetails) Reviews() []domain.Review {
	if v.app.Store.State().Reviews.SpotID != v.SpotID {
		return nil
	}
	return v.app.Reviews.All()
}

func (v *SpotDetails) RatingLabel() string {
	return state.RatingLabel(v.Reviews())
}

func (v *SpotDetails) ReviewCountLabel() string {
	return state.ReviewCountLabel(len(v.Reviews()))
}

// CanPostReview is true for a signed in non-owner who has not reviewed the spot.
func (v *SpotDetails) CanPostReview() bool {
	s := v.app.Store.State()
	return v.Spot() != nil && state.CanPostReview(s)
}

// CanManage is true when the session user owns the spot.
func (v *SpotDetails) CanManage() bool {
	return state.IsOwner(v.app.Session.User(), v.Spot())
}

func (v *SpotDetails) CanDeleteReview(review domain.Review) bool {
	return state.CanDeleteReview(v.app.Session.User(), review)
}

// RequestDeleteReview arms the confirmation for deleting the user's review.
func (v *SpotDetails) RequestDeleteReview(reviewID int64) {
	v.Confirm.Request("Confirm Delete", "Are you sure you want to delete this review?",
		"Yes (Delete Review)", "No (Keep Review)",
		func(ctx context.Context) error {
			if err := v.app.Reviews.Remove(ctx, reviewID); err != nil {
				return err
			}
			_, err := v.app.Spots.GetDetails(ctx, v.SpotID)
			return err
		})
}

// ConfirmDelete runs the armed delete and records any failure.
func (v *SpotDetails) ConfirmDelete(ctx context.Context) error {
	v.Status.begin()
	err := v.Confirm.Confirm(ctx)
	v.Status.Record(err)
	return err
}

// ManageSpots lists the spots of the signed in user.
type ManageSpots struct {
	app     *App
	Status  Status
	Confirm Confirm
}

func NewManageSpots(app *App) *ManageSpots {
	return &ManageSpots{app: app}
}

func (v *ManageSpots) Mount(ctx context.Context) {
	v.Status.begin()
	if v.app.Session.User() == nil {
		v.Status.done()
		v.Status.Banner = "Log in to manage your spots."
		return
	}
	_, err := v.app.Spots.List(ctx)
	v.Status.Record(err)
}

func (v *ManageSpots) Cards() []SpotCard {
	user := v.app.Session.User()
	if user == nil {
		return nil
	}
	spots := v.app.Spots.OwnedBy(user.ID)
	cards := make([]SpotCard, 0, len(spots))
	for _, spot := range spots {
		cards = append(cards, cardFor(spot))
	}
	return cards
}

// RequestDelete arms the confirmation for removing one of the user's spots.
func (v *ManageSpots) RequestDelete(spotID int64) {
	v.Confirm.Request("Confirm Delete", "Are you sure you want to remove this spot?",
		"Yes (Delete Spot)", "No (Keep Spot)",
		func(ctx context.Context) error {
			return v.app.Spots.Remove(ctx, spotID)
		})
}

func (v *ManageSpots) ConfirmDelete(ctx context.Context) error {
	v.Status.begin()
	err := v.Confirm.Confirm(ctx)
	v.Status.Record(err)
	return err
}
