package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AccessRecord is a user's premium/trial state. A user has at most one.
type AccessRecord struct {
	UserID     int64        `json:"user_id"`
	HasPremium bool         `json:"has_premium"`
	TrialEnd   sql.NullTime `json:"trial_end" swaggertype:"string"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Allows reports whether the record grants access at the given instant:
// premium always wins; otherwise an unexpired trial.
func (r *AccessRecord) Allows(now time.Time) bool {
	if r.HasPremium {
		return true
	}
	return r.TrialEnd.Valid && r.TrialEnd.Time.After(now)
}

type SubscriptionsStore struct {
	db *sql.DB
}

// Get returns the user's access record, creating the empty one on first
// check if signup somehow didn't.
func (s *SubscriptionsStore) Get(ctx context.Context, userID int64) (*AccessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO user_access (user_id, has_premium, trial_end)
		VALUES ($1, false, NULL)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, has_premium, trial_end, updated_at
	`
	var rec AccessRecord
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID, &rec.HasPremium, &rec.TrialEnd, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// StartTrial sets the trial end. Starting a trial on a premium account or
// restarting a used trial is rejected.
func (s *SubscriptionsStore) StartTrial(ctx context.Context, userID int64, until time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_access
		SET trial_end = $1, updated_at = now()
		WHERE user_id = $2 AND has_premium = false AND trial_end IS NULL
	`, until, userID)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: trial already used or account is premium", ErrConflict)
	}
	return nil
}

// ActivatePremium flips the record to premium and clears the trial end.
func (s *SubscriptionsStore) ActivatePremium(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		UPDATE user_access
		SET has_premium = true, trial_end = NULL, updated_at = now()
		WHERE user_id = $1
	`, userID)
	return err
}

// ExpiringBetween returns non-premium records whose trial ends inside the
// window, for expiry notifications.
func (s *SubscriptionsStore) ExpiringBetween(ctx context.Context, from, to time.Time) ([]AccessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, has_premium, trial_end, updated_at
		FROM user_access
		WHERE has_premium = false
		  AND trial_end IS NOT NULL
		  AND trial_end > $1 AND trial_end <= $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccessRecord
	for rows.Next() {
		var rec AccessRecord
		if err := rows.Scan(&rec.UserID, &rec.HasPremium, &rec.TrialEnd, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
