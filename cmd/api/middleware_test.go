package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"localespot/internal/store"

	"go.uber.org/zap"
)

type stubSubscriptions struct {
	rec           *store.AccessRecord
	startTrialErr error
	expiring      []store.AccessRecord
	windows       [][2]time.Time
}

func (s *stubSubscriptions) Get(ctx context.Context, userID int64) (*store.AccessRecord, error) {
	return s.rec, nil
}
func (s *stubSubscriptions) StartTrial(ctx context.Context, userID int64, until time.Time) error {
	return s.startTrialErr
}
func (s *stubSubscriptions) ActivatePremium(ctx context.Context, userID int64) error { return nil }
func (s *stubSubscriptions) ExpiringBetween(ctx context.Context, from, to time.Time) ([]store.AccessRecord, error) {
	s.windows = append(s.windows, [2]time.Time{from, to})
	return s.expiring, nil
}

func newTestApp(rec *store.AccessRecord) *application {
	return &application{
		config: config{env: "test"},
		logger: zap.NewNop().Sugar(),
		store:  store.Storage{Subscriptions: &stubSubscriptions{rec: rec}},
	}
}

func requestWithUser(userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/map", nil)
	ctx := context.WithValue(req.Context(), userCtx, &store.User{ID: userID})
	return req.WithContext(ctx)
}

func TestRequireAccessBlocksWithoutTrialOrPremium(t *testing.T) {
	app := newTestApp(&store.AccessRecord{UserID: 1})

	called := false
	handler := app.RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(1))

	if called {
		t.Fatal("expected gate to block the request")
	}
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", rr.Code)
	}
}

func TestRequireAccessAllowsActiveTrial(t *testing.T) {
	app := newTestApp(&store.AccessRecord{
		UserID:   1,
		TrialEnd: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	})

	called := false
	handler := app.RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(1))

	if !called {
		t.Fatalf("expected gate to pass the request, got status %d", rr.Code)
	}
}

func TestRequireAccessBlocksExpiredTrial(t *testing.T) {
	app := newTestApp(&store.AccessRecord{
		UserID:   1,
		TrialEnd: sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true},
	})

	handler := app.RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("expired trial must not pass the gate")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(1))

	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", rr.Code)
	}
}

func TestRequireAccessAllowsPremium(t *testing.T) {
	app := newTestApp(&store.AccessRecord{UserID: 1, HasPremium: true})

	called := false
	handler := app.RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithUser(1))

	if !called {
		t.Fatalf("expected premium to pass the gate, got status %d", rr.Code)
	}
}

func TestRequireAccessRejectsAnonymous(t *testing.T) {
	app := newTestApp(&store.AccessRecord{UserID: 1, HasPremium: true})

	handler := app.RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("anonymous request must not pass the gate")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/map", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	app := newTestApp(nil)

	rr := httptest.NewRecorder()
	app.healthCheckHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", envelope.Data["status"])
	}
}
