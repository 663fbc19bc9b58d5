package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("a user with that email already exists")
	ErrTokenExpired   = errors.New("activation token is invalid or expired")
)

type User struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Password     password       `json:"-"`
	AvatarURL    sql.NullString `json:"avatar_url" swaggertype:"string"`
	Provider     sql.NullString `json:"provider" swaggertype:"string"`
	RefreshToken string         `json:"-"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// password keeps the bcrypt hash next to the plaintext it was derived from;
// neither is ever serialized.
type password struct {
	text *string
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type UsersStore struct {
	db *sql.DB
}

// CreateAndInvite stores the user, its confirmation invitation, and an empty
// access record in one transaction. The user stays inactive until the
// confirmation token is redeemed.
func (s *UsersStore) CreateAndInvite(ctx context.Context, user *User, hashedToken string, invitationExp time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (name, email, password, provider)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Password.hash, user.Provider,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"` {
			return ErrDuplicateEmail
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_invitations (token, user_id, expiry)
		VALUES ($1, $2, $3)
	`, hashedToken, user.ID, time.Now().Add(invitationExp))
	if err != nil {
		return err
	}

	// Access record exists from signup; trial/premium come later.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_access (user_id, has_premium, trial_end)
		VALUES ($1, false, NULL)
	`, user.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Activate redeems a confirmation token: flips the user active and burns the
// invitation.
func (s *UsersStore) Activate(ctx context.Context, hashedToken string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM user_invitations
		WHERE token = $1 AND expiry > $2
	`, hashedToken, time.Now()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenExpired
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET is_active = true, updated_at = now() WHERE id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *UsersStore) GetByID(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, name, email, password, avatar_url, provider, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password.hash,
		&user.AvatarURL, &user.Provider, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, name, email, password, avatar_url, provider, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password.hash,
		&user.AvatarURL, &user.Provider, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UsersStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

// UpdateUser updates the mutable display fields.
func (s *UsersStore) UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error {
	query := "UPDATE users SET "
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		switch key {
		case "name", "avatar_url":
			query += fmt.Sprintf("%s = $%d, ", key, argCounter)
			args = append(args, value)
			argCounter++
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query += fmt.Sprintf("updated_at = now() WHERE id = $%d", argCounter)
	args = append(args, userID)

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *UsersStore) SetAvatar(ctx context.Context, userID int64, avatarURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2`, avatarURL, userID)
	return err
}

func (s *UsersStore) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, token, userID)
	return err
}

func (s *UsersStore) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var token sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT refresh_token FROM users WHERE id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token.String, nil
}

func (s *UsersStore) DeleteRefreshToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `UPDATE users SET refresh_token = NULL WHERE id = $1`, userID)
	return err
}
