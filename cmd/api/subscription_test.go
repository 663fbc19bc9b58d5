package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"localespot/internal/store"

	"go.uber.org/zap"
)

func newTrialTestApp(startTrialErr error) *application {
	return &application{
		config: config{
			env:   "test",
			trial: trialConfig{duration: 24 * time.Hour, reminderLead: 2 * time.Hour},
		},
		logger: zap.NewNop().Sugar(),
		store:  store.Storage{Subscriptions: &stubSubscriptions{startTrialErr: startTrialErr}},
	}
}

func TestStartTrialUsedTrialConflicts(t *testing.T) {
	app := newTrialTestApp(fmt.Errorf("%w: trial already used or account is premium", store.ErrConflict))

	rr := httptest.NewRecorder()
	app.startTrialHandler(rr, requestWithUser(1))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestStartTrialStoreFailureIsNotAConflict(t *testing.T) {
	app := newTrialTestApp(errors.New("connection reset"))

	rr := httptest.NewRecorder()
	app.startTrialHandler(rr, requestWithUser(1))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}
