package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype" // For PostGIS GEOGRAPHY
	"github.com/lib/pq"

	"localespot/internal/places"
)

type PlacesStore struct {
	db *sql.DB
}

const placeColumns = `
	id, name, description, image_urls, features,
	ST_Y(location::geometry), ST_X(location::geometry), address,
	rating, neighborhood, created_at, updated_at
`

func scanPlace(row interface {
	Scan(dest ...interface{}) error
}) (*places.Place, error) {
	var p places.Place
	var features []string
	var neighborhood sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Description,
		pq.Array(&p.Images), pq.Array(&features),
		&p.Location.Lat, &p.Location.Lng, &p.Location.Address,
		&p.Rating, &neighborhood, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		p.Features = append(p.Features, places.Feature(f))
	}
	if neighborhood.Valid {
		p.Neighborhood = &neighborhood.String
	}
	return &p, nil
}

// GetAll returns every place, optionally narrowed to those carrying all of
// the selected features (array containment, AND semantics).
func (s *PlacesStore) GetAll(ctx context.Context, selected []places.Feature) ([]places.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + placeColumns + ` FROM places`
	args := []interface{}{}
	if len(selected) > 0 {
		features := make([]string, len(selected))
		for i, f := range selected {
			features[i] = string(f)
		}
		query += ` WHERE features @> $1`
		args = append(args, pq.Array(features))
	}
	query += ` ORDER BY rating DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var out []places.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan place row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID retrieves a place by its ID.
func (s *PlacesStore) GetByID(ctx context.Context, placeID int64) (*places.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	p, err := scanPlace(s.db.QueryRowContext(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a new place (seed/admin path).
func (s *PlacesStore) Create(ctx context.Context, place *places.Place) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO places (name, description, image_urls, features, location, address, rating, neighborhood)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	point := pgtype.Point{
		P:     pgtype.Vec2{X: place.Location.Lng, Y: place.Location.Lat},
		Valid: true,
	}

	features := make([]string, len(place.Features))
	for i, f := range place.Features {
		features[i] = string(f)
	}

	return s.db.QueryRowContext(ctx, query,
		place.Name,
		place.Description,
		pq.Array(place.Images),
		pq.Array(features),
		point.P.X, // Longitude
		point.P.Y, // Latitude
		place.Location.Address,
		place.Rating,
		place.Neighborhood,
	).Scan(&place.ID, &place.CreatedAt, &place.UpdatedAt)
}

// AddPhotoURL appends a photo URL to a place's image_urls array.
func (s *PlacesStore) AddPhotoURL(ctx context.Context, placeID int64, photoURL string) error {
	query := `
		UPDATE places
		SET image_urls = array_append(image_urls, $1)
		WHERE id = $2
	`
	_, err := s.db.ExecContext(ctx, query, photoURL, placeID)
	if err != nil {
		return fmt.Errorf("failed to add photo URL: %w", err)
	}
	return nil
}

// RemovePhotoURL removes a photo URL from a place's image_urls array.
func (s *PlacesStore) RemovePhotoURL(ctx context.Context, placeID int64, photoURL string) error {
	query := `
		UPDATE places
		SET image_urls = array_remove(image_urls, $1)
		WHERE id = $2
	`
	_, err := s.db.ExecContext(ctx, query, photoURL, placeID)
	if err != nil {
		return fmt.Errorf("failed to remove photo URL: %w", err)
	}
	return nil
}

// SetRating writes the recomputed average back to the place row.
func (s *PlacesStore) SetRating(ctx context.Context, placeID int64, rating float64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE places SET rating = $1, updated_at = now() WHERE id = $2`, rating, placeID)
	return err
}
