package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"localespot/internal/mapview"
	"localespot/internal/places"

	"github.com/go-chi/chi/v5"
)

// MapSnapshot is what the client renders: either a live marker set or, when
// the provider token could not be fetched, a plain list of place names. It is
// computed per request from the caller's filter and hover target; popup and
// selection state travel on the click/popup endpoints instead.
type MapSnapshot struct {
	State         string           `json:"state"`
	Token         string           `json:"token,omitempty"`
	Markers       []mapview.Marker `json:"markers"`
	Center        [2]float64       `json:"center"`
	FallbackNames []string         `json:"fallback_names,omitempty"`
}

// GetMap godoc
//
//	@Summary		Map snapshot
//	@Description	Returns the rendered map state for the current place list. Accepts the same features filter as the place list plus an optional hovered place, which is highlighted.
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			features	query		string	false	"Comma-separated feature tags"
//	@Param			hovered		query		int		false	"Hovered place ID"
//	@Success		200			{object}	MapSnapshot
//	@Failure		400			{object}	error	"Unknown feature tag"
//	@Failure		402			{object}	error	"Trial expired"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/map [get]
func (app *application) getMapHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter []places.Feature
	if raw := r.URL.Query().Get("features"); raw != "" {
		parsed, err := places.ParseFeatures(strings.Split(raw, ","))
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		filter = parsed
	}

	var hovered int64
	if raw := r.URL.Query().Get("hovered"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid hovered place ID"))
			return
		}
		hovered = parsed
	}

	if app.mapView.State() == mapview.StateUninitialized {
		if err := app.mapView.Init(ctx); err != nil {
			app.logger.Warnw("map token unavailable, serving fallback", "error", err)
		}
		app.mapView.FinishLoad(ctx)
	}

	list, err := app.store.Places.GetAll(ctx, nil)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	snap := app.mapView.Snapshot(ctx, list, filter, hovered)

	snapshot := MapSnapshot{
		State:         snap.State.String(),
		Token:         snap.Token,
		Markers:       snap.Markers,
		Center:        snap.Center,
		FallbackNames: snap.FallbackNames,
	}

	if err := app.jsonResponse(w, http.StatusOK, snapshot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// MarkerClickResponse is the lightweight highlight summary a marker click
// yields; full details are a separate navigation to the place endpoint.
type MarkerClickResponse struct {
	SelectedPlaceID int64        `json:"selected_place_id"`
	Place           places.Place `json:"place"`
}

// MarkerClick godoc
//
//	@Summary		Click a marker
//	@Description	Selects the clicked place for the highlight summary and closes any open popup.
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int	true	"Place ID"
//	@Success		200		{object}	MarkerClickResponse
//	@Failure		400		{object}	error	"Invalid place ID"
//	@Failure		402		{object}	error	"Trial expired"
//	@Failure		404		{object}	error	"No marker for that place"
//	@Security		ApiKeyAuth
//	@Router			/map/markers/{placeID}/click [post]
func (app *application) markerClickHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, errors.New("invalid placeID"))
		return
	}

	place, ok := app.mapView.HandleMarkerClick(placeID)
	if !ok {
		app.notFoundResponse(w, r, errors.New("no marker for that place"))
		return
	}

	app.attachShareCode(&place)

	if err := app.jsonResponse(w, http.StatusOK, MarkerClickResponse{
		SelectedPlaceID: app.mapView.SelectedPlaceID(),
		Place:           place,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// OpenPopup godoc
//
//	@Summary		Open the detail popup
//	@Description	Opens the popup for a place, replacing any open one. At most one popup is open at a time.
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int				true	"Place ID"
//	@Success		200		{object}	map[string]int64	"popup_place_id"
//	@Failure		400		{object}	error			"Invalid place ID"
//	@Failure		402		{object}	error			"Trial expired"
//	@Security		ApiKeyAuth
//	@Router			/map/popup/{placeID} [post]
func (app *application) openPopupHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, errors.New("invalid placeID"))
		return
	}

	app.mapView.OpenPopup(placeID)

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"popup_place_id": app.mapView.PopupPlaceID()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ClosePopup godoc
//
//	@Summary		Close the popup
//	@Description	Closes the open popup, if any.
//	@Tags			map
//	@Produce		json
//	@Success		204
//	@Failure		402	{object}	error	"Trial expired"
//	@Security		ApiKeyAuth
//	@Router			/map/popup [delete]
func (app *application) closePopupHandler(w http.ResponseWriter, r *http.Request) {
	app.mapView.ClosePopup()
	w.WriteHeader(http.StatusNoContent)
}

// GetMapToken godoc
//
//	@Summary		Map provider token
//	@Description	Returns the access token the embedded map uses, so the secret never ships in the client bundle.
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string	"Provider token"
//	@Failure		402	{object}	error				"Trial expired"
//	@Failure		500	{object}	error				"Token not configured"
//	@Security		ApiKeyAuth
//	@Router			/map/token [get]
func (app *application) getMapTokenHandler(w http.ResponseWriter, r *http.Request) {
	token, err := app.geo.Token(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"token": token}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type GeocodePayload struct {
	Address string `json:"address" validate:"required"`
}

// Geocode godoc
//
//	@Summary		Forward geocoding
//	@Description	Resolves a free-form address to a [lng, lat] pair via the map provider. Results are cached per address.
//	@Tags			map
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		GeocodePayload		true	"Address to resolve"
//	@Success		200		{object}	map[string]float64	"lng and lat"
//	@Failure		400		{object}	error				"Missing address"
//	@Failure		402		{object}	error				"Trial expired"
//	@Failure		404		{object}	error				"No match"
//	@Failure		500		{object}	error				"Provider failure"
//	@Security		ApiKeyAuth
//	@Router			/map/geocode [post]
func (app *application) geocodeHandler(w http.ResponseWriter, r *http.Request) {
	var payload GeocodePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lng, lat, ok, err := app.geo.Geocode(r.Context(), payload.Address)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !ok {
		app.notFoundResponse(w, r, errors.New("no match for address"))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]float64{"lng": lng, "lat": lat}); err != nil {
		app.internalServerError(w, r, err)
	}
}
