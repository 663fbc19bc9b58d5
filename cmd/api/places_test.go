package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"localespot/internal/places"
	"localespot/internal/share"
	"localespot/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubPlaces struct {
	place      *places.Place
	setRatings []float64
}

func (s *stubPlaces) GetAll(ctx context.Context, features []places.Feature) ([]places.Place, error) {
	if s.place == nil {
		return nil, nil
	}
	return []places.Place{*s.place}, nil
}
func (s *stubPlaces) GetByID(ctx context.Context, placeID int64) (*places.Place, error) {
	if s.place == nil || s.place.ID != placeID {
		return nil, store.ErrNotFound
	}
	return s.place, nil
}
func (s *stubPlaces) Create(ctx context.Context, place *places.Place) error { return nil }
func (s *stubPlaces) AddPhotoURL(ctx context.Context, placeID int64, photoURL string) error {
	return nil
}
func (s *stubPlaces) RemovePhotoURL(ctx context.Context, placeID int64, photoURL string) error {
	return nil
}
func (s *stubPlaces) SetRating(ctx context.Context, placeID int64, rating float64) error {
	s.setRatings = append(s.setRatings, rating)
	return nil
}

type stubReviews struct {
	total   int
	average float64 // raw mean, as the SQL AVG would return it
}

func (s *stubReviews) CreateReview(ctx context.Context, review *store.Review) error { return nil }
func (s *stubReviews) GetReviews(ctx context.Context, placeID int64) ([]store.Review, error) {
	return nil, nil
}
func (s *stubReviews) DeleteReview(ctx context.Context, reviewID, userID int64) error { return nil }
func (s *stubReviews) GetReviewStats(ctx context.Context, placeID int64) (int, float64, error) {
	return s.total, s.average, nil
}
func (s *stubReviews) HasReview(ctx context.Context, placeID, userID int64) (bool, error) {
	return false, nil
}

func reqWithRouteParam(method, target, key, value string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newPlacesTestApp(t *testing.T, sp *stubPlaces, sr *stubReviews) *application {
	t.Helper()
	codec, err := share.NewCodec("test-salt")
	if err != nil {
		t.Fatalf("share codec: %v", err)
	}
	return &application{
		config:     config{env: "test"},
		logger:     zap.NewNop().Sugar(),
		shareCodes: codec,
		store:      store.Storage{Places: sp, Reviews: sr},
	}
}

func TestGetPlaceRoundsAverageRating(t *testing.T) {
	// Ratings 5, 4, 4: the raw mean is 13/3 = 4.333…, displayed as 4.3.
	sp := &stubPlaces{place: &places.Place{ID: 4, Name: "Waterside Deck"}}
	sr := &stubReviews{total: 3, average: 13.0 / 3.0}
	app := newPlacesTestApp(t, sp, sr)

	rr := httptest.NewRecorder()
	app.getPlaceHandler(rr, reqWithRouteParam(http.MethodGet, "/v1/places/4", "placeID", "4"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var envelope struct {
		Data struct {
			ReviewCount   int     `json:"review_count"`
			AverageRating float64 `json:"average_rating"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if envelope.Data.ReviewCount != 3 {
		t.Errorf("review_count = %d, want 3", envelope.Data.ReviewCount)
	}
	if envelope.Data.AverageRating != 4.3 {
		t.Errorf("average_rating = %v, want 4.3", envelope.Data.AverageRating)
	}
}

func TestRefreshPlaceRatingPersistsRoundedMean(t *testing.T) {
	sp := &stubPlaces{place: &places.Place{ID: 4, Name: "Waterside Deck"}}
	sr := &stubReviews{total: 3, average: 13.0 / 3.0}
	app := newPlacesTestApp(t, sp, sr)

	app.refreshPlaceRating(httptest.NewRequest(http.MethodPost, "/v1/places/4/reviews", nil), 4)

	if len(sp.setRatings) != 1 {
		t.Fatalf("SetRating called %d times, want 1", len(sp.setRatings))
	}
	if sp.setRatings[0] != 4.3 {
		t.Errorf("persisted rating = %v, want 4.3", sp.setRatings[0])
	}
}
