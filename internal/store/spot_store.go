package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vbonduro/atozbnb/internal/domain"
)

// spotSelect reads spots together with their derived review aggregates and
// preview image URL.
const spotSelect = `
	SELECT s.id, s.owner_id, s.address, s.city, s.state, s.country, s.lat, s.lng,
		s.name, s.description, s.price, s.created_at, s.updated_at,
		(SELECT AVG(r.stars) FROM reviews r WHERE r.spot_id = s.id) AS avg_rating,
		(SELECT COUNT(*) FROM reviews r WHERE r.spot_id = s.id) AS num_reviews,
		COALESCE((SELECT i.url FROM spot_images i
			WHERE i.spot_id = s.id AND i.preview = 1
			ORDER BY i.id DESC LIMIT 1), '') AS preview_image
	FROM spots s`

type SpotStore struct {
	db *sqlx.DB
}

func NewSpotStore(db *sqlx.DB) *SpotStore {
	return &SpotStore{db: db}
}

func (s *SpotStore) Create(ctx context.Context, ownerID int64, in domain.SpotInput) (*domain.Spot, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO spots (owner_id, address, city, state, country, lat, lng, name, description, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ownerID, in.Address, in.City, in.State, in.Country, in.Lat, in.Lng, in.Name, in.Description, in.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to create spot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SpotStore) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	spot := &domain.Spot{}
	err := s.db.GetContext(ctx, spot, spotSelect+` WHERE s.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	return spot, nil
}

func (s *SpotStore) List(ctx context.Context) ([]*domain.Spot, error) {
	var spots []*domain.Spot
	if err := s.db.SelectContext(ctx, &spots, spotSelect+` ORDER BY s.id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	return spots, nil
}

func (s *SpotStore) Update(ctx context.Context, id int64, in domain.SpotInput) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE spots SET address = ?, city = ?, state = ?, country = ?, lat = ?, lng = ?,
			name = ?, description = ?, price = ?, updated_at = datetime('now')
		WHERE id = ?
	`, in.Address, in.City, in.State, in.Country, in.Lat, in.Lng, in.Name, in.Description, in.Price, id)
	if err != nil {
		return fmt.Errorf("failed to update spot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("spot %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *SpotStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM spots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("spot %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
