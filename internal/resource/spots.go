package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/vbonduro/atozbnb/internal/client"
	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/state"
)

const (
	msgPreviewRequired = "Preview image is required"
	msgImageExt        = "Image URL must end in .png, .jpg, or .jpeg"
)

// SpotForm is the create/edit spot form. Image fields are only checked when
// creating.
type SpotForm struct {
	domain.SpotInput
	PreviewImage string
	ImageURLs    []string
}

// Validate checks the spot fields and, when withImages is set, the image URLs.
func (f SpotForm) Validate(withImages bool) domain.FieldErrors {
	fields := domain.Validate(f.SpotInput, domain.SpotMessages())
	if !withImages {
		return fields
	}

	add := func(key, msg string) {
		if fields == nil {
			fields = domain.FieldErrors{}
		}
		fields[key] = msg
	}
	switch {
	case strings.TrimSpace(f.PreviewImage) == "":
		add("previewImage", msgPreviewRequired)
	case !domain.IsImageURL(f.PreviewImage):
		add("previewImage", msgImageExt)
	}
	for i, u := range f.ImageURLs {
		if strings.TrimSpace(u) != "" && !domain.IsImageURL(u) {
			add(fmt.Sprintf("image%d", i+1), msgImageExt)
		}
	}
	return fields
}

type Spots struct {
	client fetcher
	store  *state.Store
	owners *ttlcache.Cache[int64, domain.PublicProfile]
	logger *slog.Logger
}

func NewSpots(c fetcher, store *state.Store, ownerTTL time.Duration, logger *slog.Logger) *Spots {
	return &Spots{
		client: c,
		store:  store,
		owners: ttlcache.New(
			ttlcache.WithTTL[int64, domain.PublicProfile](ownerTTL),
			ttlcache.WithDisableTouchOnHit[int64, domain.PublicProfile](),
		),
		logger: logger,
	}
}

// List replaces the listed spots with the API's current list.
func (s *Spots) List(ctx context.Context) ([]domain.Spot, error) {
	var body struct {
		Spots []domain.Spot `json:"Spots"`
	}
	if err := s.client.Do(ctx, http.MethodGet, "/api/spots", nil, &body); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.LoadSpots{Spots: body.Spots})
	return body.Spots, nil
}

// GetDetails loads one spot into the detail slot. The owner profile and the
// preview URL are filled in when the API omits them. A response arriving after
// a newer GetDetails call is returned but not stored.
func (s *Spots) GetDetails(ctx context.Context, id int64) (*domain.Spot, error) {
	s.store.Dispatch(state.RequestSpotDetails{ID: id})

	var body struct {
		Spot *domain.Spot `json:"spot"`
	}
	if err := s.client.Do(ctx, http.MethodGet, spotPath(id), nil, &body); err != nil {
		return nil, err
	}
	if body.Spot == nil {
		return nil, fmt.Errorf("spot %d missing from response", id)
	}
	spot := body.Spot

	if spot.Owner == nil {
		owner, err := s.owner(ctx, spot.OwnerID)
		if err != nil {
			s.logger.Warn("owner lookup failed", "spot_id", id, "owner_id", spot.OwnerID, "error", err)
		} else {
			spot.Owner = owner
		}
	}
	if spot.PreviewImage == "" {
		for _, img := range spot.SpotImages {
			if img.Preview {
				spot.PreviewImage = img.URL
				break
			}
		}
	}

	s.store.Dispatch(state.LoadSpotDetails{Spot: *spot})
	return spot, nil
}

// Create submits a new spot and then attaches its images. Image failures do
// not undo the spot: the spot is returned together with an *ImageAttachError.
func (s *Spots) Create(ctx context.Context, form SpotForm) (*domain.Spot, error) {
	if fields := form.Validate(true); fields != nil {
		return nil, invalid(fields)
	}

	var body struct {
		Spot *domain.Spot `json:"spot"`
	}
	if err := s.client.Do(ctx, http.MethodPost, "/api/spots", form.SpotInput, &body); err != nil {
		return nil, err
	}
	if body.Spot == nil {
		return nil, fmt.Errorf("spot missing from create response")
	}
	spot := body.Spot
	s.store.Dispatch(state.AddSpot{Spot: *spot})
	s.logger.Debug("spot created", "spot_id", spot.ID)

	attachErr := &ImageAttachError{SpotID: spot.ID}
	attach := func(url string, preview bool) {
		img, err := s.AddImage(ctx, spot.ID, url, preview)
		if err != nil {
			attachErr.Failures = append(attachErr.Failures, ImageFailure{URL: url, Preview: preview, Err: err})
			return
		}
		if img.Preview {
			spot.PreviewImage = img.URL
		}
	}
	attach(strings.TrimSpace(form.PreviewImage), true)
	for _, u := range form.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			attach(u, false)
		}
	}

	if len(attachErr.Failures) > 0 {
		s.logger.Warn("spot images failed to attach", "spot_id", spot.ID, "failed", len(attachErr.Failures))
		return spot, attachErr
	}
	return spot, nil
}

// Update submits an edit and replaces the list entry and, when it holds this
// spot, the detail slot.
func (s *Spots) Update(ctx context.Context, id int64, form SpotForm) (*domain.Spot, error) {
	if fields := form.Validate(false); fields != nil {
		return nil, invalid(fields)
	}

	var body struct {
		Spot *domain.Spot `json:"spot"`
	}
	if err := s.client.Do(ctx, http.MethodPut, spotPath(id), form.SpotInput, &body); err != nil {
		return nil, err
	}
	if body.Spot == nil {
		return nil, fmt.Errorf("spot %d missing from update response", id)
	}
	s.store.Dispatch(state.UpdateSpot{Spot: *body.Spot})
	return body.Spot, nil
}

// Remove deletes a spot and drops it, its detail and its loaded reviews from state.
func (s *Spots) Remove(ctx context.Context, id int64) error {
	if err := s.client.Do(ctx, http.MethodDelete, spotPath(id), nil, nil); err != nil {
		return err
	}
	s.store.Dispatch(state.RemoveSpot{ID: id})
	return nil
}

// AddImage attaches an image URL to a spot.
func (s *Spots) AddImage(ctx context.Context, spotID int64, url string, preview bool) (*domain.SpotImage, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, invalid(domain.FieldErrors{"url": "Image URL is required"})
	}
	if !domain.IsImageURL(url) {
		return nil, invalid(domain.FieldErrors{"url": msgImageExt})
	}

	var img domain.SpotImage
	if err := s.client.Do(ctx, http.MethodPost, spotPath(spotID)+"/images",
		domain.SpotImageInput{URL: url, Preview: preview}, &img); err != nil {
		return nil, err
	}
	img.SpotID = spotID
	s.refreshImages(spotID, img)
	return &img, nil
}

// UploadImage sends image bytes as a multipart upload.
func (s *Spots) UploadImage(ctx context.Context, spotID int64, filename string, r io.Reader, preview bool) (*domain.SpotImage, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.WriteField("preview", strconv.FormatBool(preview)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	var img domain.SpotImage
	if err := s.client.Do(ctx, http.MethodPost, spotPath(spotID)+"/images", buf, &img,
		client.WithContentType(mw.FormDataContentType())); err != nil {
		return nil, err
	}
	img.SpotID = spotID
	s.refreshImages(spotID, img)
	return &img, nil
}

// All returns the listed spots ordered by id.
func (s *Spots) All() []domain.Spot {
	return state.SpotList(s.store.State())
}

func (s *Spots) Get(id int64) (domain.Spot, bool) {
	spot, ok := s.store.State().Spots.All[id]
	return spot, ok
}

// Detail returns the spot in the detail slot, or nil.
func (s *Spots) Detail() *domain.Spot {
	return s.store.State().Spots.Detail
}

func (s *Spots) OwnedBy(userID int64) []domain.Spot {
	return state.SpotsOwnedBy(s.store.State(), userID)
}

func (s *Spots) owner(ctx context.Context, id int64) (*domain.PublicProfile, error) {
	if item := s.owners.Get(id); item != nil {
		owner := item.Value()
		return &owner, nil
	}

	var body struct {
		User *domain.PublicProfile `json:"user"`
	}
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &body); err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, fmt.Errorf("user %d missing from response", id)
	}
	s.owners.Set(id, *body.User, ttlcache.DefaultTTL)
	return body.User, nil
}

// refreshImages folds a newly attached image into the spot's known images.
func (s *Spots) refreshImages(spotID int64, img domain.SpotImage) {
	var images []domain.SpotImage
	if detail := s.Detail(); detail != nil && detail.ID == spotID {
		images = slices.Clone(detail.SpotImages)
		if img.Preview {
			for i := range images {
				images[i].Preview = false
			}
		}
	}
	images = append(images, img)
	s.store.Dispatch(state.RefreshSpotImages{SpotID: spotID, Images: images})
}

func spotPath(id int64) string {
	return fmt.Sprintf("/api/spots/%d", id)
}
