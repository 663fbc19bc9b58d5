package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"localespot/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// CreateReview godoc
//
//	@Summary		Create a review
//	@Description	Adds the current user's review to a place and refreshes the place's average rating. One review per user per place.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int					true	"Place ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	store.Review
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		409		{object}	error	"Already reviewed"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	exists, err := app.store.Reviews.HasReview(r.Context(), placeID, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if exists {
		app.conflictResponse(w, r, errors.New("you already reviewed this place"))
		return
	}

	review := &store.Review{
		PlaceID: placeID,
		UserID:  user.ID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	}

	if err := app.store.Reviews.CreateReview(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.refreshPlaceRating(r, placeID)

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetReviews godoc
//
//	@Summary		List reviews for a place
//	@Description	Returns the place's reviews, newest first, with reviewer name and avatar.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int	true	"Place ID"
//	@Success		200		{array}		store.Review
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews [get]
func (app *application) getReviewsHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	reviews, err := app.store.Reviews.GetReviews(r.Context(), placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, reviews); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeleteReview godoc
//
//	@Summary		Delete a review
//	@Description	Deletes the current user's review and refreshes the place's average rating.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			placeID		path	int	true	"Place ID"
//	@Param			reviewID	path	int	true	"Review ID"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		404	{object}	error	"Review not found"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/places/{placeID}/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil || reviewID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid reviewID"))
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	if err := app.store.Reviews.DeleteReview(r.Context(), reviewID, user.ID); err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.refreshPlaceRating(r, placeID)

	w.WriteHeader(http.StatusNoContent)
}

// refreshPlaceRating recomputes the place's displayed rating from its review
// stats, rounded to one decimal place. A failure here leaves a stale rating,
// not a broken request.
func (app *application) refreshPlaceRating(r *http.Request, placeID int64) {
	_, average, err := app.store.Reviews.GetReviewStats(r.Context(), placeID)
	if err != nil {
		app.logger.Errorw("error loading review stats", "place_id", placeID, "error", err)
		return
	}

	if err := app.store.Places.SetRating(r.Context(), placeID, store.RoundRating(average)); err != nil {
		app.logger.Errorw("error updating place rating", "place_id", placeID, "error", err)
	}
}
