package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vbonduro/atozbnb/internal/domain"
	"github.com/vbonduro/atozbnb/internal/photostore"
)

// ImageURLPrefix is the URL path under which uploaded spot images are served.
const ImageURLPrefix = "/images/"

// spotRepository is the subset of store.SpotStore that SpotService requires.
type spotRepository interface {
	Create(ctx context.Context, ownerID int64, in domain.SpotInput) (*domain.Spot, error)
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
	List(ctx context.Context) ([]*domain.Spot, error)
	Update(ctx context.Context, id int64, in domain.SpotInput) error
	Delete(ctx context.Context, id int64) error
}

// spotImageRepository is the subset of store.SpotImageStore that SpotService requires.
type spotImageRepository interface {
	Create(ctx context.Context, spotID int64, url string, preview bool) (*domain.SpotImage, error)
	ListBySpotID(ctx context.Context, spotID int64) ([]domain.SpotImage, error)
}

// userLookup is the subset of store.UserStore used to resolve owners and authors.
type userLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SpotService struct {
	spotStore  spotRepository
	imageStore spotImageRepository
	userStore  userLookup
	photoStg   photostore.PhotoStore
	logger     *slog.Logger
}

func NewSpotService(
	spotStore spotRepository,
	imageStore spotImageRepository,
	userStore userLookup,
	photoStg photostore.PhotoStore,
	logger *slog.Logger,
) *SpotService {
	return &SpotService{
		spotStore:  spotStore,
		imageStore: imageStore,
		userStore:  userStore,
		photoStg:   photoStg,
		logger:     logger,
	}
}

func (s *SpotService) ListSpots(ctx context.Context) ([]*domain.Spot, error) {
	spots, err := s.spotStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if spots == nil {
		spots = []*domain.Spot{}
	}
	return spots, nil
}

// GetSpot returns the spot with its owner's public profile and all of its images.
func (s *SpotService) GetSpot(ctx context.Context, spotID int64) (*domain.Spot, error) {
	spot, err := s.spotStore.GetByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	if spot == nil {
		return nil, domain.ErrNotFound
	}

	owner, err := s.userStore.GetByID(ctx, spot.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot owner: %w", err)
	}
	if owner != nil {
		spot.Owner = &domain.PublicProfile{ID: owner.ID, FirstName: owner.FirstName, LastName: owner.LastName}
	}

	images, err := s.imageStore.ListBySpotID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spot images: %w", err)
	}
	if images == nil {
		images = []domain.SpotImage{}
	}
	spot.SpotImages = images

	return spot, nil
}

func (s *SpotService) CreateSpot(ctx context.Context, ownerID int64, in domain.SpotInput) (*domain.Spot, error) {
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}

	spot, err := s.spotStore.Create(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("spot created", "spot_id", spot.ID, "user_id", ownerID)
	return spot, nil
}

func (s *SpotService) UpdateSpot(ctx context.Context, userID, spotID int64, in domain.SpotInput) (*domain.Spot, error) {
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}
	if _, err := s.ownedSpot(ctx, userID, spotID); err != nil {
		return nil, err
	}

	if err := s.spotStore.Update(ctx, spotID, in); err != nil {
		return nil, fmt.Errorf("failed to update spot: %w", err)
	}
	s.logger.Info("spot updated", "spot_id", spotID, "user_id", userID)
	return s.GetSpot(ctx, spotID)
}

// DeleteSpot removes the spot and, through the schema, its images, reviews and
// bookings. Uploaded image files are removed best effort afterwards.
func (s *SpotService) DeleteSpot(ctx context.Context, userID, spotID int64) error {
	if _, err := s.ownedSpot(ctx, userID, spotID); err != nil {
		return err
	}

	images, err := s.imageStore.ListBySpotID(ctx, spotID)
	if err != nil {
		return fmt.Errorf("failed to list spot images: %w", err)
	}

	if err := s.spotStore.Delete(ctx, spotID); err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}
	s.logger.Info("spot deleted", "spot_id", spotID, "user_id", userID)

	for _, img := range images {
		key, ok := strings.CutPrefix(img.URL, ImageURLPrefix)
		if !ok {
			continue
		}
		if err := s.photoStg.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete image file", "spot_id", spotID, "storage_key", key, "error", err)
		}
	}
	return nil
}

// AddImage attaches an image URL to a spot owned by userID.
func (s *SpotService) AddImage(ctx context.Context, userID, spotID int64, in domain.SpotImageInput) (*domain.SpotImage, error) {
	if fields := in.Validate(); fields != nil {
		return nil, fields
	}
	if _, err := s.ownedSpot(ctx, userID, spotID); err != nil {
		return nil, err
	}

	image, err := s.imageStore.Create(ctx, spotID, strings.TrimSpace(in.URL), in.Preview)
	if err != nil {
		return nil, err
	}
	s.logger.Info("spot image added", "spot_id", spotID, "image_id", image.ID, "preview", in.Preview)
	return image, nil
}

// UploadImage stores the image bytes and attaches them to the spot under
// ImageURLPrefix.
func (s *SpotService) UploadImage(ctx context.Context, userID, spotID int64, mimeType string, r io.Reader, preview bool) (*domain.SpotImage, error) {
	if _, err := s.ownedSpot(ctx, userID, spotID); err != nil {
		return nil, err
	}

	storageKey, err := s.photoStg.Save(ctx, fmt.Sprintf("spot_%d", spotID), mimeType, r)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	s.logger.Debug("image stored", "spot_id", spotID, "storage_key", storageKey)

	image, err := s.imageStore.Create(ctx, spotID, ImageURLPrefix+storageKey, preview)
	if err != nil {
		if derr := s.photoStg.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to roll back image file", "storage_key", storageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}
	s.logger.Info("spot image uploaded", "spot_id", spotID, "image_id", image.ID, "preview", preview)
	return image, nil
}

// OpenImage returns the stored bytes of an uploaded image and their content type.
func (s *SpotService) OpenImage(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	return s.photoStg.Get(ctx, storageKey)
}

func (s *SpotService) ownedSpot(ctx context.Context, userID, spotID int64) (*domain.Spot, error) {
	spot, err := s.spotStore.GetByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	if spot == nil {
		return nil, domain.ErrNotFound
	}
	if spot.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return spot, nil
}
