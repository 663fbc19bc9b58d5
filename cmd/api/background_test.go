package main

import (
	"context"
	"testing"
	"time"

	"localespot/internal/store"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
)

type stubPushTokens struct {
	tokens map[int64][]string
}

func (s *stubPushTokens) Save(ctx context.Context, userID int64, token string) error   { return nil }
func (s *stubPushTokens) Remove(ctx context.Context, userID int64, token string) error { return nil }
func (s *stubPushTokens) TokensForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	return s.tokens, nil
}

type fakePush struct {
	published [][]*exponent.Message
}

func (f *fakePush) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	f.published = append(f.published, msgs)
	return nil, nil
}

func newSweepTestApp(sub *stubSubscriptions, tokens *stubPushTokens, push *fakePush) *application {
	return &application{
		config: config{
			env:   "test",
			trial: trialConfig{duration: 24 * time.Hour, reminderLead: 2 * time.Hour},
		},
		logger: zap.NewNop().Sugar(),
		store:  store.Storage{Subscriptions: sub, PushTokens: tokens},
		push:   push,
	}
}

// The sweep queries a window exactly one tick wide at the reminder lead, so
// each trial crosses it once and a user is reminded once, not on every tick
// until expiry.
func TestSweepWindowIsOneTickWide(t *testing.T) {
	sub := &stubSubscriptions{}
	app := newSweepTestApp(sub, &stubPushTokens{}, &fakePush{})

	before := time.Now()
	app.sweepTrials(context.Background())
	after := time.Now()

	if len(sub.windows) != 1 {
		t.Fatalf("ExpiringBetween called %d times, want 1", len(sub.windows))
	}
	from, to := sub.windows[0][0], sub.windows[0][1]

	if got := to.Sub(from); got != sweepInterval {
		t.Errorf("window width = %v, want %v", got, sweepInterval)
	}
	lead := app.config.trial.reminderLead
	if to.Before(before.Add(lead)) || to.After(after.Add(lead)) {
		t.Errorf("window end = %v, want now+%v", to, lead)
	}
}

func TestSweepPushesReminderToExpiringUser(t *testing.T) {
	sub := &stubSubscriptions{expiring: []store.AccessRecord{{UserID: 7}}}
	tokens := &stubPushTokens{tokens: map[int64][]string{
		7: {"ExponentPushToken[abc]"},
	}}
	push := &fakePush{}
	app := newSweepTestApp(sub, tokens, push)

	app.sweepTrials(context.Background())

	if len(push.published) != 1 {
		t.Fatalf("Publish called %d times, want 1", len(push.published))
	}
	if got := len(push.published[0]); got != 1 {
		t.Fatalf("published %d messages, want 1", got)
	}
}

func TestSweepWithoutExpiringTrialsPushesNothing(t *testing.T) {
	push := &fakePush{}
	app := newSweepTestApp(&stubSubscriptions{}, &stubPushTokens{}, push)

	app.sweepTrials(context.Background())

	if len(push.published) != 0 {
		t.Fatalf("Publish called %d times, want 0", len(push.published))
	}
}
