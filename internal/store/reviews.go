package store

import (
	"context"
	"database/sql"
	"math"
	"time"
)

type Review struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"place_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	UserName  string `json:"user_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ReviewStore struct {
	db *sql.DB
}

// RoundRating rounds a raw rating mean to one decimal place, the precision
// every displayed and persisted rating carries.
func RoundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}

// AverageRating is the displayed rating for a loaded review set: the
// arithmetic mean rounded to one decimal place. Zero when the set is empty.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return RoundRating(float64(sum) / float64(len(reviews)))
}

func (s *ReviewStore) CreateReview(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (place_id, user_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	return s.db.QueryRowContext(ctx, query,
		review.PlaceID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

// GetReviews returns a place's reviews, newest first.
func (s *ReviewStore) GetReviews(ctx context.Context, placeID int64) ([]Review, error) {
	query := `
        SELECT r.id, r.place_id, r.user_id, r.rating, r.comment, r.created_at,
               u.name, COALESCE(u.avatar_url, '')
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.place_id = $1
        ORDER BY r.created_at DESC
    `
	rows, err := s.db.QueryContext(ctx, query, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID,
			&review.PlaceID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UserName,
			&review.AvatarURL,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (s *ReviewStore) DeleteReview(ctx context.Context, reviewID, userID int64) error {
	query := `
        DELETE FROM reviews
        WHERE id = $1 AND user_id = $2
    `
	result, err := s.db.ExecContext(ctx, query, reviewID, userID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetReviewStats returns the review count and the raw rating mean. Callers
// round with RoundRating before displaying or persisting it.
func (s *ReviewStore) GetReviewStats(ctx context.Context, placeID int64) (total int, average float64, err error) {
	query := `
        SELECT
            COUNT(id) as total_reviews,
            COALESCE(AVG(rating), 0) as average_rating
        FROM reviews
        WHERE place_id = $1
    `
	err = s.db.QueryRowContext(ctx, query, placeID).Scan(&total, &average)
	return total, average, err
}

// HasReview returns true if a review by this user on this place already exists.
func (s *ReviewStore) HasReview(ctx context.Context, placeID, userID int64) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM reviews
          WHERE place_id = $1 AND user_id = $2
        )
    `
	err := s.db.QueryRowContext(ctx, query, placeID, userID).Scan(&exists)
	return exists, err
}
