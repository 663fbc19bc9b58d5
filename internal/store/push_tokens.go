package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type PushTokensStore struct {
	db *sql.DB
}

// Save upserts an Expo push token for a user.
func (s *PushTokensStore) Save(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO push_tokens (user_id, expo_push_token, last_updated)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, expo_push_token)
		DO UPDATE SET last_updated = now()
	`
	_, err := s.db.ExecContext(ctx, query, userID, token)
	return err
}

// Remove deletes a token for a user.
func (s *PushTokensStore) Remove(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `DELETE FROM push_tokens WHERE user_id = $1 AND expo_push_token = $2`, userID, token)
	return err
}

// TokensForUsers returns each user's push tokens, keyed by user id.
func (s *PushTokensStore) TokensForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	if len(userIDs) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, expo_push_token
		FROM push_tokens
		WHERE user_id = ANY($1)
	`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var token string
		if err := rows.Scan(&userID, &token); err != nil {
			return nil, err
		}
		out[userID] = append(out[userID], token)
	}
	return out, rows.Err()
}
