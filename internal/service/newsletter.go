package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/microcosm-cc/bluemonday"
)

const maxIdempotencyKeyLen = 50

type NewsletterService interface {
	Publish(ctx context.Context, creds domain.Credentials, issue domain.NewsletterIssue, key domain.IdempotencyKey) (*domain.SavedResponse, error)
}

// Newsletter orchestrates one publish request: authenticate, claim the
// idempotency key, fan out to confirmed subscribers, persist the response.
type Newsletter struct {
	auth        CredentialValidator
	store       IdempotencyStorage
	subscribers SubscriberDirectory
	dispatcher  FanoutDispatcher
	sanitizer   *bluemonday.Policy
	log         *slog.Logger
}

type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, creds domain.Credentials) (domain.UserId, error)
}

type IdempotencyStorage interface {
	BeginPublish(ctx context.Context, userId domain.UserId, key domain.IdempotencyKey) (domain.Claim, error)
	CompletePublish(ctx context.Context, userId domain.UserId, key domain.IdempotencyKey, response *domain.SavedResponse) error
}

type SubscriberDirectory interface {
	ConfirmedSubscriberEmails(ctx context.Context) ([]string, error)
}

type FanoutDispatcher interface {
	Dispatch(ctx context.Context, issue domain.NewsletterIssue, emails []string) (FanoutReport, error)
}

func NewNewsletter(auth CredentialValidator, store IdempotencyStorage, subscribers SubscriberDirectory, dispatcher FanoutDispatcher, log *slog.Logger) *Newsletter {
	return &Newsletter{
		auth:        auth,
		store:       store,
		subscribers: subscribers,
		dispatcher:  dispatcher,
		sanitizer:   bluemonday.UGCPolicy(),
		log:         log,
	}
}

func validateIdempotencyKey(key domain.IdempotencyKey) error {
	if key == "" {
		return &errors.ErrorWithStatusCode{Message: "The idempotency key cannot be empty", StatusCode: http.StatusBadRequest}
	}
	if len(key) > maxIdempotencyKeyLen {
		return &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("The idempotency key must be shorter than %d characters", maxIdempotencyKeyLen+1),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Publish runs the full workflow. Whatever happens, the caller gets exactly
// one well-formed response: the saved one on replay, a 409 while another
// request holds the key, or the freshly built one after a completed fan-out.
//
// Authentication failures never touch the idempotency store, and a fatal
// dispatch failure leaves the claim incomplete so a retry with the same key
// re-attempts the full fan-out. That retry re-sends to recipients that were
// already reached before the failure; there is no per-recipient progress
// tracking to resume from.
func (n *Newsletter) Publish(ctx context.Context, creds domain.Credentials, issue domain.NewsletterIssue, key domain.IdempotencyKey) (*domain.SavedResponse, error) {
	userId, err := n.auth.ValidateCredentials(ctx, creds)
	if err != nil {
		return nil, err
	}

	if err := validateIdempotencyKey(key); err != nil {
		return nil, err
	}

	claim, err := n.store.BeginPublish(ctx, userId, key)
	if err != nil {
		return nil, err
	}
	switch claim.State {
	case domain.ClaimReplay:
		n.log.Info("returning saved response for a seen idempotency key", "user_id", userId)
		return claim.Saved, nil
	case domain.ClaimInProgress:
		return nil, &errors.ErrorWithStatusCode{
			Message:    "This newsletter issue is already being published, retry later",
			StatusCode: http.StatusConflict,
		}
	}

	// The claim is ours. From here the fan-out runs to completion or fatal
	// failure even if the client disconnects; the claimed-incomplete row is
	// the recovery marker, not the request context.
	ctx = context.WithoutCancel(ctx)

	issue.HtmlContent = n.sanitizer.Sanitize(issue.HtmlContent)

	emails, err := n.subscribers.ConfirmedSubscriberEmails(ctx)
	if err != nil {
		return nil, err
	}

	report, err := n.dispatcher.Dispatch(ctx, issue, emails)
	if err != nil {
		n.log.Error("newsletter fan-out aborted", "user_id", userId, "delivered", report.Delivered, "error", err)
		return nil, err
	}
	if report.Skipped > 0 {
		n.log.Warn("some confirmed subscribers were skipped", "skipped", report.Skipped)
	}

	response := successResponse(report)
	if err := n.store.CompletePublish(ctx, userId, key, response); err != nil {
		return nil, err
	}

	n.log.Info("newsletter issue published", "user_id", userId, "delivered", report.Delivered, "skipped", report.Skipped)
	return response, nil
}

func successResponse(report FanoutReport) *domain.SavedResponse {
	return &domain.SavedResponse{
		StatusCode: http.StatusSeeOther,
		Headers: http.Header{
			"Location":     {"/admin/newsletters"},
			"Content-Type": {"text/plain; charset=utf-8"},
		},
		Body: []byte(fmt.Sprintf("The newsletter issue has been published to %d subscribers", report.Delivered)),
	}
}
