package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"localespot/internal/places"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		CreateAndInvite(ctx context.Context, user *User, hashedToken string, invitationExp time.Duration) error
		Activate(ctx context.Context, hashedToken string) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		Delete(context.Context, int64) error
		UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error
		SetAvatar(ctx context.Context, userID int64, avatarURL string) error
		SaveRefreshToken(ctx context.Context, userID int64, token string) error
		GetRefreshToken(ctx context.Context, userID int64) (string, error)
		DeleteRefreshToken(ctx context.Context, userID int64) error
	}
	Places interface {
		GetAll(ctx context.Context, features []places.Feature) ([]places.Place, error)
		GetByID(ctx context.Context, placeID int64) (*places.Place, error)
		Create(ctx context.Context, place *places.Place) error
		AddPhotoURL(ctx context.Context, placeID int64, photoURL string) error
		RemovePhotoURL(ctx context.Context, placeID int64, photoURL string) error
		SetRating(ctx context.Context, placeID int64, rating float64) error
	}
	Reviews interface {
		CreateReview(ctx context.Context, review *Review) error
		GetReviews(ctx context.Context, placeID int64) ([]Review, error)
		DeleteReview(ctx context.Context, reviewID, userID int64) error
		GetReviewStats(ctx context.Context, placeID int64) (int, float64, error)
		HasReview(ctx context.Context, placeID, userID int64) (bool, error)
	}
	Wishlist interface {
		Toggle(ctx context.Context, userID, placeID int64) (added bool, err error)
		Remove(ctx context.Context, userID, placeID int64) error
		GetByUser(ctx context.Context, userID int64) ([]places.Place, error)
		Has(ctx context.Context, userID, placeID int64) (bool, error)
	}
	Subscriptions interface {
		Get(ctx context.Context, userID int64) (*AccessRecord, error)
		StartTrial(ctx context.Context, userID int64, until time.Time) error
		ActivatePremium(ctx context.Context, userID int64) error
		ExpiringBetween(ctx context.Context, from, to time.Time) ([]AccessRecord, error)
	}
	PushTokens interface {
		Save(ctx context.Context, userID int64, token string) error
		Remove(ctx context.Context, userID int64, token string) error
		TokensForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Users:         &UsersStore{db},
		Places:        &PlacesStore{db},
		Reviews:       &ReviewStore{db},
		Wishlist:      &WishlistStore{db},
		Subscriptions: &SubscriptionsStore{db},
		PushTokens:    &PushTokensStore{db},
	}
}
