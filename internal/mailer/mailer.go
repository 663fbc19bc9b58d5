package mailer

import "embed"

const (
	FromName                 = "LocaleSpot"
	maxRetries               = 3
	UserConfirmationTemplate = "user_confirmation.tmpl"
	TrialStartedTemplate     = "trial_started.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
