package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/metrics"
)

type Mailer interface {
	Send(recipientEmail, subject, htmlBody, textBody string) error
}

// Dispatcher delivers a newsletter issue to a list of stored subscriber
// addresses, one at a time.
type Dispatcher struct {
	mailer Mailer
	log    *slog.Logger
}

func NewDispatcher(mailer Mailer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, log: log}
}

type FanoutReport struct {
	Delivered int
	Skipped   int
}

// Dispatch attempts delivery to each address sequentially. One outstanding
// delivery at a time bounds the load on the mail transport and keeps ordering
// deterministic.
//
// The two failure modes are deliberately asymmetric:
//   - a stored address that no longer parses is a data error: it is logged
//     and skipped, and the loop continues;
//   - a transport failure is fatal and aborts the loop, because recipients
//     already reached cannot be un-sent and there is no per-recipient progress
//     tracking to resume from.
func (d *Dispatcher) Dispatch(ctx context.Context, issue domain.NewsletterIssue, emails []string) (FanoutReport, error) {
	var report FanoutReport
	for _, raw := range emails {
		email, err := domain.ParseSubscriberEmail(raw)
		if err != nil {
			d.log.Warn("skipping a confirmed subscriber, their stored contact details are invalid", "error", err)
			report.Skipped++
			continue
		}

		if err := d.mailer.Send(email.String(), issue.Title, issue.HtmlContent, issue.TextContent); err != nil {
			return report, fmt.Errorf("failed to send newsletter issue to %s: %w", email, err)
		}
		metrics.CountDelivery()
		report.Delivered++
	}
	return report, nil
}
