package notifications

import (
	"context"
	"fmt"

	"github.com/9ssi7/exponent"
)

// NotifyTrialExpiring pushes an expiry reminder to every device token of the
// affected users.
func NotifyTrialExpiring(ctx context.Context, sender PushSender, tokensByUser map[int64][]string, hoursLeft int) error {
	var msgs []*exponent.Message
	for _, tokens := range tokensByUser {
		for _, t := range tokens {
			token := exponent.Token(t)
			msgs = append(msgs, &exponent.Message{
				To:    []*exponent.Token{&token},
				Title: "Your trial is ending soon",
				Body:  fmt.Sprintf("Your free trial ends in about %d hours. Upgrade to keep full access.", hoursLeft),
				Sound: "default",
			})
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	if _, err := sender.Publish(ctx, msgs); err != nil {
		return fmt.Errorf("publish trial notifications: %w", err)
	}
	return nil
}
