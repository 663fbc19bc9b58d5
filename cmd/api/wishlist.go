package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// GetWishlist godoc
//
//	@Summary		Retrieve the user's wishlist
//	@Description	Returns the places the current user has saved, newest first.
//	@Tags			wishlist
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		places.Place	"Saved places"
//	@Failure		400	{object}	error			"Bad Request: Unauthenticated request"
//	@Failure		500	{object}	error			"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/wishlist [get]
func (app *application) getWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.badRequestResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	saved, err := app.store.Wishlist.GetByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for i := range saved {
		app.attachShareCode(&saved[i])
	}

	if err := app.jsonResponse(w, http.StatusOK, saved); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ToggleWishlist godoc
//
//	@Summary		Toggle a place on the wishlist
//	@Description	Adds the place when absent, removes it when present. The response says which happened.
//	@Tags			wishlist
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int					true	"Place ID"
//	@Success		200		{object}	map[string]bool		"saved: whether the place is on the list now"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/wishlist/{placeID} [put]
func (app *application) toggleWishlistHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		app.badRequestResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	added, err := app.store.Wishlist.Toggle(r.Context(), user.ID, placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]bool{"saved": added}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// RemoveFromWishlist godoc
//
//	@Summary		Remove a place from the wishlist
//	@Description	Removes the place. Removing a place that is not saved is a no-op.
//	@Tags			wishlist
//	@Accept			json
//	@Produce		json
//	@Param			placeID	path		int					true	"Place ID"
//	@Success		200		{object}	map[string]string	"Place removed"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/wishlist/{placeID} [delete]
func (app *application) removeWishlistHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "placeID"), 10, 64)
	if err != nil || placeID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid placeID"))
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		app.badRequestResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	if err := app.store.Wishlist.Remove(r.Context(), user.ID, placeID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "place removed from wishlist"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
