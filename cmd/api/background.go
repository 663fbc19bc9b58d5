package main

import (
	"context"
	"time"

	"localespot/internal/metrics"
	"localespot/internal/notifications"
)

const sweepInterval = time.Minute

// sweepTrialsEveryMinute watches for trials about to run out and pushes a
// reminder to the affected users' devices. Expired trials need no write: the
// access check compares trial_end against the clock on every request.
func (app *application) sweepTrialsEveryMinute() {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			app.sweepTrials(context.Background())
		}
	}()
}

func (app *application) sweepTrials(ctx context.Context) {
	now := time.Now()
	lead := app.config.trial.reminderLead

	// One sweep-interval-wide window at the reminder lead, so each trial
	// crosses it on exactly one tick and gets exactly one reminder.
	expiring, err := app.store.Subscriptions.ExpiringBetween(ctx, now.Add(lead-sweepInterval), now.Add(lead))
	if err != nil {
		app.logger.Errorf("Error loading expiring trials: %v", err)
		return
	}
	if len(expiring) == 0 {
		return
	}

	userIDs := make([]int64, 0, len(expiring))
	for _, rec := range expiring {
		userIDs = append(userIDs, rec.UserID)
	}

	tokensByUser, err := app.store.PushTokens.TokensForUsers(ctx, userIDs)
	if err != nil {
		app.logger.Errorf("Error loading push tokens: %v", err)
		return
	}

	hoursLeft := int(lead.Hours())
	if err := notifications.NotifyTrialExpiring(ctx, app.push, tokensByUser, hoursLeft); err != nil {
		app.logger.Errorf("Error sending trial reminders: %v", err)
		return
	}

	metrics.TrialsExpiring.Add(float64(len(expiring)))
	app.logger.Infof("Sent trial reminders to %d users", len(expiring))
}
