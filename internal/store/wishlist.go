package store

import (
	"context"
	"database/sql"
	"fmt"

	"localespot/internal/places"
)

// WishlistStore handles the per-user wish list. Entries are deduplicated by
// place id, so toggling a place in and out restores the prior state exactly.
type WishlistStore struct {
	db *sql.DB
}

// Toggle adds the place if absent and removes it if present. The returned
// flag reports whether the place is on the list after the call.
func (s *WishlistStore) Toggle(ctx context.Context, userID, placeID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO wishlist_entries (user_id, place_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("failed to add wishlist entry: %w", err)
	}

	inserted, _ := result.RowsAffected()
	if inserted > 0 {
		return true, nil
	}

	// Already present: this toggle removes it.
	if err := s.Remove(ctx, userID, placeID); err != nil {
		return true, err
	}
	return false, nil
}

// Remove deletes an entry from the wish list.
func (s *WishlistStore) Remove(ctx context.Context, userID, placeID int64) error {
	query := `
		DELETE FROM wishlist_entries
		WHERE user_id = $1 AND place_id = $2
	`
	_, err := s.db.ExecContext(ctx, query, userID, placeID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}

// GetByUser returns full place snapshots for everything on the user's list,
// most recently added first.
func (s *WishlistStore) GetByUser(ctx context.Context, userID int64) ([]places.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT p.id, p.name, p.description, p.image_urls, p.features,
		       ST_Y(p.location::geometry), ST_X(p.location::geometry), p.address,
		       p.rating, p.neighborhood, p.created_at, p.updated_at
		FROM places p
		JOIN wishlist_entries w ON p.id = w.place_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	defer rows.Close()

	var out []places.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Has reports whether the place is on the user's wish list.
func (s *WishlistStore) Has(ctx context.Context, userID, placeID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
		  SELECT 1 FROM wishlist_entries
		  WHERE user_id = $1 AND place_id = $2
		)
	`
	err := s.db.QueryRowContext(ctx, query, userID, placeID).Scan(&exists)
	return exists, err
}
