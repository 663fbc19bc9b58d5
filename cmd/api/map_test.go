package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"localespot/internal/mapview"
	"localespot/internal/places"
	"localespot/internal/share"

	"go.uber.org/zap"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token(ctx context.Context) (string, error) { return s.token, nil }

func newMapTestApp(t *testing.T) *application {
	t.Helper()
	codec, err := share.NewCodec("test-salt")
	if err != nil {
		t.Fatalf("share codec: %v", err)
	}

	view := mapview.New(staticTokens{token: "pk.test"}, nil)
	if err := view.Init(context.Background()); err != nil {
		t.Fatalf("init map view: %v", err)
	}
	view.FinishLoad(context.Background())
	view.Snapshot(context.Background(), []places.Place{
		{ID: 2, Name: "Green Garden Café", Location: places.Location{Lat: 40.715120, Lng: -74.002860}},
	}, nil, 0)

	return &application{
		config:     config{env: "test"},
		logger:     zap.NewNop().Sugar(),
		shareCodes: codec,
		mapView:    view,
	}
}

func TestMarkerClickSelectsPlace(t *testing.T) {
	app := newMapTestApp(t)
	app.mapView.OpenPopup(2)

	rr := httptest.NewRecorder()
	app.markerClickHandler(rr, reqWithRouteParam(http.MethodPost, "/v1/map/markers/2/click", "placeID", "2"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var envelope struct {
		Data struct {
			SelectedPlaceID int64 `json:"selected_place_id"`
			Place           struct {
				Name string `json:"name"`
			} `json:"place"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if envelope.Data.SelectedPlaceID != 2 {
		t.Errorf("selected_place_id = %d, want 2", envelope.Data.SelectedPlaceID)
	}
	if envelope.Data.Place.Name != "Green Garden Café" {
		t.Errorf("place name = %q", envelope.Data.Place.Name)
	}
	if app.mapView.PopupPlaceID() != 0 {
		t.Error("marker click must close the open popup")
	}
}

func TestMarkerClickUnknownPlace(t *testing.T) {
	app := newMapTestApp(t)

	rr := httptest.NewRecorder()
	app.markerClickHandler(rr, reqWithRouteParam(http.MethodPost, "/v1/map/markers/99/click", "placeID", "99"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestOpenAndClosePopupHandlers(t *testing.T) {
	app := newMapTestApp(t)

	rr := httptest.NewRecorder()
	app.openPopupHandler(rr, reqWithRouteParam(http.MethodPost, "/v1/map/popup/2", "placeID", "2"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if app.mapView.PopupPlaceID() != 2 {
		t.Fatalf("popup_place_id = %d, want 2", app.mapView.PopupPlaceID())
	}

	rr = httptest.NewRecorder()
	app.closePopupHandler(rr, httptest.NewRequest(http.MethodDelete, "/v1/map/popup", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if app.mapView.PopupPlaceID() != 0 {
		t.Error("popup not closed")
	}
}
