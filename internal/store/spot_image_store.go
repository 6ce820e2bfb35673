package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/atozbnb/internal/domain"
)

type SpotImageStore struct {
	db *sqlx.DB
}

func NewSpotImageStore(db *sqlx.DB) *SpotImageStore {
	return &SpotImageStore{db: db}
}

// Create adds an image to a spot. A preview image takes the preview flag away
// from the spot's other images so at most one preview exists per spot.
func (s *SpotImageStore) Create(ctx context.Context, spotID int64, url string, preview bool) (*domain.SpotImage, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if preview {
		if _, err := tx.ExecContext(ctx, `UPDATE spot_images SET preview = 0 WHERE spot_id = ?`, spotID); err != nil {
			return nil, fmt.Errorf("failed to clear preview images: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO spot_images (spot_id, url, preview) VALUES (?, ?, ?)
	`, spotID, url, preview)
	if err != nil {
		return nil, fmt.Errorf("failed to create spot image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	image := &domain.SpotImage{}
	if err := tx.GetContext(ctx, image, `
		SELECT id, spot_id, url, preview, created_at FROM spot_images WHERE id = ?
	`, id); err != nil {
		return nil, fmt.Errorf("failed to get spot image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit spot image: %w", err)
	}
	return image, nil
}

func (s *SpotImageStore) ListBySpotID(ctx context.Context, spotID int64) ([]domain.SpotImage, error) {
	var images []domain.SpotImage
	if err := s.db.SelectContext(ctx, &images, `
		SELECT id, spot_id, url, preview, created_at FROM spot_images
		WHERE spot_id = ? ORDER BY preview DESC, id ASC
	`, spotID); err != nil {
		return nil, fmt.Errorf("failed to list spot images: %w", err)
	}
	return images, nil
}
