package view

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/resource"
)

// SpotForm creates a spot, or edits one when EditID is set.
type SpotForm struct {
	app    *App
	EditID int64
	Form   resource.SpotForm
	Status Status
}

func NewSpotForm(app *App) *SpotForm {
	return &SpotForm{app: app}
}

func EditSpotForm(app *App, spotID int64) *SpotForm {
	return &SpotForm{app: app, EditID: spotID}
}

func (v *SpotForm) Editing() bool {
	return v.EditID != 0
}

func (v *SpotForm) Title() string {
	if v.Editing() {
		return "Update your Spot"
	}
	return "Create a new Spot"
}

// Mount prefills the form from the spot being edited.
func (v *SpotForm) Mount(ctx context.Context) {
	if !v.Editing() {
		return
	}
	v.Status.begin()
	spot, err := v.app.Spots.GetDetails(ctx, v.EditID)
	if err != nil {
		v.Status.Record(err)
		return
	}
	v.Status.done()
	if !v.canEdit(spot) {
		v.Status.Banner = "Only the owner can edit this spot."
		return
	}
	v.Form.SpotInput = domain.SpotInput{
		Address:     spot.Address,
		City:        spot.City,
		State:       spot.State,
		Country:     spot.Country,
		Lat:         spot.Lat,
		Lng:         spot.Lng,
		Name:        spot.Name,
		Description: spot.Description,
		Price:       spot.Price,
	}
}

// Submit creates or updates the spot. A spot whose images failed to attach is
// still returned, with the failure shown as a banner.
func (v *SpotForm) Submit(ctx context.Context) (*domain.Spot, error) {
	v.Status.begin()
	var spot *domain.Spot
	var err error
	if v.Editing() {
		spot, err = v.app.Spots.Update(ctx, v.EditID, v.Form)
	} else {
		spot, err = v.app.Spots.Create(ctx, v.Form)
	}
	v.Status.Record(err)
	return spot, err
}

func (v *SpotForm) canEdit(spot *domain.Spot) bool {
	user := v.app.Session.User()
	return user != nil && spot.OwnerID == user.ID
}

// ReviewForm posts a review for a spot.
type ReviewForm struct {
	app    *App
	SpotID int64
	Form   resource.ReviewForm
	Status Status
}

func NewReviewForm(app *App, spotID int64) *ReviewForm {
	return &ReviewForm{app: app, SpotID: spotID}
}

// CanSubmit mirrors the submit button: enabled once the review has enough
// text and a star rating is chosen.
func (v *ReviewForm) CanSubmit() bool {
	return !v.Status.Loading &&
		utf8.RuneCountInString(strings.TrimSpace(v.Form.Body)) >= resource.MinReviewLength &&
		v.Form.Stars >= 1
}

// Submit posts the review and reloads the spot so its rating reflects it.
func (v *ReviewForm) Submit(ctx context.Context) (*domain.Review, error) {
	v.Status.begin()
	review, err := v.app.Reviews.Create(ctx, v.SpotID, v.Form)
	if err != nil {
		v.Status.Record(err)
		return nil, err
	}
	v.Form = resource.ReviewForm{}
	_, err = v.app.Spots.GetDetails(ctx, v.SpotID)
	v.Status.Record(err)
	return review, nil
}

// LoginForm signs a user in.
type LoginForm struct {
	app        *App
	Credential string
	Password   string
	Status     Status
}

func NewLoginForm(app *App) *LoginForm {
	return &LoginForm{app: app}
}

// CanSubmit requires at least 4 characters of credential and 6 of password.
func (v *LoginForm) CanSubmit() bool {
	return len(v.Credential) >= 4 && len(v.Password) >= 6
}

func (v *LoginForm) Submit(ctx context.Context) (*domain.User, error) {
	v.Status.begin()
	user, err := v.app.Session.Login(ctx, v.Credential, v.Password)
	if client.HasStatus(err, http.StatusUnauthorized) {
		v.Status.done()
		v.Status.Errors = domain.FieldErrors{"credential": "The provided credentials were invalid"}
		return nil, err
	}
	v.Status.Record(err)
	return user, err
}

// DemoLogin signs in as the seeded demo user.
func (v *LoginForm) DemoLogin(ctx context.Context) (*domain.User, error) {
	v.Credential = "Demo-lition"
	v.Password = "password"
	return v.Submit(ctx)
}

// SignupForm creates an account and signs it in.
type SignupForm struct {
	app    *App
	Form   resource.SignupForm
	Status Status
}

func NewSignupForm(app *App) *SignupForm {
	return &SignupForm{app: app}
}

func (v *SignupForm) CanSubmit() bool {
	f := v.Form
	return f.Email != "" && len(f.Username) >= 4 && f.FirstName != "" && f.LastName != "" &&
		len(f.Password) >= 6 && f.ConfirmPassword != ""
}

func (v *SignupForm) Submit(ctx context.Context) (*domain.User, error) {
	v.Status.begin()
	user, err := v.app.Session.Signup(ctx, v.Form)
	v.Status.Record(err)
	return user, err
}

// IsValidation reports whether err was caught before any request was sent.
func IsValidation(err error) bool {
	var verr *resource.ValidationError
	return errors.As(err, &verr)
}
