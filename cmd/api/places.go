package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"localespot/internal/places"
	"localespot/internal/store"

	"github.com/go-chi/chi/v5"
)

// GetPlaces godoc
//
//	@Summary		List places
//	@Description	Returns all places, optionally narrowed to those carrying every requested feature tag.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			features	query		string	false	"Comma-separated feature tags; a place must carry all of them"
//	@Success		200			{array}		places.Place
//	@Failure		400			{object}	error	"Unknown feature tag"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Router			/places [get]
func (app *application) getPlacesHandler(w http.ResponseWriter, r *http.Request) {
	var selected []places.Feature

	if raw := r.URL.Query().Get("features"); raw != "" {
		parsed, err := places.ParseFeatures(strings.Split(raw, ","))
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		selected = parsed
	}

	list, err := app.store.Places.GetAll(r.Context(), selected)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for i := range list {
		app.attachShareCode(&list[i])
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PlaceDetail is a place plus its review stats.
type PlaceDetail struct {
	*places.Place
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// GetPlace godoc
//
//	@Summary		Get a single place
//	@Description	Returns one place with its share code and review stats attached.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int	true	"Place ID"
//	@Success		200		{object}	PlaceDetail
//	@Failure		400		{object}	error	"Invalid place ID"
//	@Failure		404		{object}	error	"Place not found"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/places/{placeID} [get]
func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), placeID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.attachShareCode(place)

	count, average, err := app.store.Reviews.GetReviewStats(r.Context(), placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	detail := PlaceDetail{
		Place:         place,
		ReviewCount:   count,
		AverageRating: store.RoundRating(average),
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetPlaceByCode godoc
//
//	@Summary		Resolve a share code
//	@Description	Looks up a place from its short share code, for shared links.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			code	path		string	true	"Share code"
//	@Success		200		{object}	places.Place
//	@Failure		400		{object}	error	"Malformed share code"
//	@Failure		404		{object}	error	"Place not found"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/places/code/{code} [get]
func (app *application) getPlaceByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	placeID, err := app.shareCodes.Decode(code)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed share code"))
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), placeID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.attachShareCode(place)

	if err := app.jsonResponse(w, http.StatusOK, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreatePlacePayload struct {
	Name         string   `json:"name" validate:"required,max=150"`
	Description  string   `json:"description" validate:"required"`
	Features     []string `json:"features" validate:"dive,feature"`
	Address      string   `json:"address" validate:"required"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Neighborhood *string  `json:"neighborhood,omitempty"`
}

// CreatePlace godoc
//
//	@Summary		Create a place
//	@Description	Creates a new place. Coordinates are optional; places without them are geocoded from the address when shown on the map.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreatePlacePayload	true	"Place details"
//	@Success		201		{object}	places.Place
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places [post]
func (app *application) createPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	features, err := places.ParseFeatures(payload.Features)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	place := &places.Place{
		Name:        payload.Name,
		Description: payload.Description,
		Features:    features,
		Location: places.Location{
			Lat:     payload.Lat,
			Lng:     payload.Lng,
			Address: payload.Address,
		},
		Neighborhood: payload.Neighborhood,
	}

	if err := app.store.Places.Create(r.Context(), place); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.attachShareCode(place)

	if err := app.jsonResponse(w, http.StatusCreated, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UploadPlacePhoto godoc
//
//	@Summary		Upload a place photo
//	@Description	Uploads an image and appends its URL to the place's image list.
//	@Tags			places
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			placeID	path		int					true	"Place ID"
//	@Param			image	formData	file				true	"Photo"
//	@Success		201		{object}	map[string]string	"Photo URL"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/photos [post]
func (app *application) uploadPlacePhotoHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("could not parse form: %w", err))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("missing image file: %w", err))
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("place_%d_image_%d", placeID, time.Now().UnixNano())
	photoURL, err := app.uploadToCloudinaryWithID(file, "places", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Places.AddPhotoURL(r.Context(), placeID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"photo_url": photoURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeletePlacePhoto godoc
//
//	@Summary		Delete a place photo
//	@Description	Removes the photo from storage and from the place's image list. Call DELETE /places/{placeID}/photos?photo_url={url}.
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			placeID		path		int		true	"Place ID"
//	@Param			photo_url	query		string	true	"Photo URL to remove"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/photos [delete]
func (app *application) deletePlacePhotoHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("missing photo_url query parameter"))
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Errorw("error deleting photo from cloudinary", "error", err)
	}

	if err := app.store.Places.RemovePhotoURL(r.Context(), placeID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "photo removed"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// attachShareCode fills in the place's short code. Encoding only fails on a
// non-positive ID, which stored places never have.
func (app *application) attachShareCode(place *places.Place) {
	code, err := app.shareCodes.Encode(place.ID)
	if err != nil {
		app.logger.Errorw("error encoding share code", "place_id", place.ID, "error", err)
		return
	}
	place.ShareCode = code
}
