package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"localespot/internal/mailer"
	"localespot/internal/metrics"
	"localespot/internal/payments"
	"localespot/internal/store"
)

// SubscriptionStatus is the access state the client gates screens on.
type SubscriptionStatus struct {
	HasPremium bool       `json:"has_premium"`
	TrialEnd   *time.Time `json:"trial_end,omitempty"`
	HasAccess  bool       `json:"has_access"`
}

// GetSubscription godoc
//
//	@Summary		Access status
//	@Description	Returns whether the current user holds premium, an active trial, or neither.
//	@Tags			subscription
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	SubscriptionStatus
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/subscription [get]
func (app *application) getSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	record, err := app.store.Subscriptions.Get(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	status := SubscriptionStatus{
		HasPremium: record.HasPremium,
		HasAccess:  record.Allows(time.Now()),
	}
	if record.TrialEnd.Valid {
		status.TrialEnd = &record.TrialEnd.Time
	}

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

// StartTrial godoc
//
//	@Summary		Start the free trial
//	@Description	Grants the one-time free trial. Rejected when the account is premium or the trial was already used.
//	@Tags			subscription
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	SubscriptionStatus
//	@Failure		409	{object}	error	"Trial already used or account is premium"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/subscription/trial [post]
func (app *application) startTrialHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	trialEnd := time.Now().Add(app.config.trial.duration)

	if err := app.store.Subscriptions.StartTrial(r.Context(), user.ID, trialEnd); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Trial email is best effort; the trial itself is already granted.
	vars := struct {
		Username string
		TrialEnd string
	}{
		Username: user.Name,
		TrialEnd: trialEnd.Format("Jan 2, 2006 at 15:04 MST"),
	}
	if _, err := app.mailer.Send(mailer.TrialStartedTemplate, user.Name, user.Email, vars); err != nil {
		app.logger.Errorw("error sending trial email", "error", err)
	}

	status := SubscriptionStatus{
		HasPremium: false,
		TrialEnd:   &trialEnd,
		HasAccess:  true,
	}

	if err := app.jsonResponse(w, http.StatusCreated, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateCheckoutPayload struct {
	Gateway string `json:"gateway" validate:"omitempty,oneof=stripe"`
}

// CheckoutResponse is the hosted payment page the client redirects to.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckout godoc
//
//	@Summary		Create a checkout session
//	@Description	Opens a hosted checkout session for the one-time premium purchase and returns its redirect URL.
//	@Tags			subscription
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCheckoutPayload	false	"Gateway selection, defaults to stripe"
//	@Success		201		{object}	CheckoutResponse
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		500		{object}	error	"Gateway failure"
//	@Security		ApiKeyAuth
//	@Router			/subscription/checkout [post]
func (app *application) createCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	var payload CreateCheckoutPayload
	if err := readJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.badRequestResponse(w, r, err)
		return
	}

	gateway := payload.Gateway
	if gateway == "" {
		gateway = "stripe"
	}

	session, err := app.payments.CreateCheckoutSession(r.Context(), gateway, payments.CheckoutRequest{
		CustomerEmail: user.Email,
		ProductName:   app.config.checkout.productName,
		Description:   app.config.checkout.description,
		Currency:      app.config.checkout.currency,
		AmountCents:   app.config.checkout.amountCents,
		SuccessURL:    fmt.Sprintf("%s/payment-success", app.config.frontendURL),
		CancelURL:     fmt.Sprintf("%s/profile", app.config.frontendURL),
	})
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues(gateway, "error").Inc()
		app.internalServerError(w, r, err)
		return
	}

	metrics.CheckoutSessions.WithLabelValues(gateway, "created").Inc()

	if err := app.jsonResponse(w, http.StatusCreated, CheckoutResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PaymentSuccess godoc
//
//	@Summary		Record a completed payment
//	@Description	Flips the account to premium and clears the trial after checkout completes.
//	@Tags			subscription
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	SubscriptionStatus
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/subscription/payment-success [get]
func (app *application) paymentSuccessHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthenticated request"))
		return
	}

	if err := app.store.Subscriptions.ActivatePremium(r.Context(), user.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	status := SubscriptionStatus{
		HasPremium: true,
		HasAccess:  true,
	}

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}
