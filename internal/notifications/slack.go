// Package notifications delivers run completion notices to external
// channels. Delivery is best-effort: a failed notification logs a
// warning and never fails the run.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/sitehealth/imagecheck/internal/storage"
)

// SlackNotifier posts run summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
}

// NewSlackNotifier creates a notifier for the given webhook URL. An
// empty URL yields a disabled notifier whose Notify is a no-op.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

// Enabled reports whether a webhook is configured.
func (n *SlackNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyRunComplete posts a summary of the finished run.
func (n *SlackNotifier) NotifyRunComplete(ctx context.Context, run *storage.Run) {
	if !n.Enabled() {
		return
	}

	duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("Image audit complete: %s", run.Domain),
		Attachments: []slack.Attachment{{
			Color: attachmentColour(run),
			Fields: []slack.AttachmentField{
				{Title: "Pages scanned", Value: fmt.Sprintf("%d", run.PagesScanned), Short: true},
				{Title: "Duration", Value: duration.String(), Short: true},
				{Title: "Broken images", Value: fmt.Sprintf("%d", run.Broken), Short: true},
				{Title: "Needs review", Value: fmt.Sprintf("%d", run.ProbablyOK), Short: true},
				{Title: "Page errors", Value: fmt.Sprintf("%d", run.PageErrors), Short: true},
				{Title: "Report", Value: run.ReportPath, Short: false},
			},
		}},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		log.Warn().Err(err).Str("domain", run.Domain).Msg("Failed to deliver Slack notification")
		return
	}

	log.Info().Str("domain", run.Domain).Msg("Slack notification delivered")
}

func attachmentColour(run *storage.Run) string {
	switch {
	case run.Broken > 0 || run.PageErrors > 0:
		return "danger"
	case run.ProbablyOK > 0:
		return "warning"
	default:
		return "good"
	}
}
