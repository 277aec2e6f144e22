package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/inkpress-dev/inkpress/internal/utils"
)

const maxSubscriberNameLen = 256

// forbiddenNameChars would let a subscriber name break out of the email
// templates it is interpolated into.
const forbiddenNameChars = `/()"<>\{}`

type SubscriptionService interface {
	Subscribe(ctx context.Context, email, name string) error
	Confirm(ctx context.Context, token string) error
}

// Subscription handles the signup / confirmation flow that feeds the
// confirmed-subscriber list.
type Subscription struct {
	storage SubscriptionStorage
	mailer  Mailer
	baseUrl string
	log     *slog.Logger
}

type SubscriptionStorage interface {
	SaveSubscriber(ctx context.Context, email, name string) (domain.SubscriberId, error)
	SaveSubscriptionToken(ctx context.Context, subscriberId domain.SubscriberId, tokenHash string) error
	ConfirmSubscriber(ctx context.Context, tokenHash string) error
}

func NewSubscription(storage SubscriptionStorage, mailer Mailer, baseUrl string, log *slog.Logger) *Subscription {
	return &Subscription{storage: storage, mailer: mailer, baseUrl: baseUrl, log: log}
}

func validateSubscriberName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxSubscriberNameLen || strings.ContainsAny(trimmed, forbiddenNameChars) {
		return &errors.ErrorWithStatusCode{Message: "Invalid subscriber name", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// Subscribe stores a pending subscriber and emails a confirmation link.
// Subscribing an already-known email re-issues the link, so a lost
// confirmation email is recoverable by subscribing again.
func (s *Subscription) Subscribe(ctx context.Context, email, name string) error {
	parsed, err := domain.ParseSubscriberEmail(email)
	if err != nil {
		return err
	}
	if err := validateSubscriberName(name); err != nil {
		return err
	}

	id, err := s.storage.SaveSubscriber(ctx, parsed.String(), strings.TrimSpace(name))
	if err != nil {
		return err
	}

	token := utils.GenerateSubscriptionToken()
	if err := s.storage.SaveSubscriptionToken(ctx, id, utils.HashToken(token)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/subscriptions/confirm?token=%s", s.baseUrl, token)
	htmlBody := fmt.Sprintf(
		`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`, link)
	textBody := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.", link)

	if err := s.mailer.Send(parsed.String(), "Please confirm your subscription", htmlBody, textBody); err != nil {
		s.log.Error("failed to send confirmation email", "error", err)
		return err
	}
	return nil
}

// Confirm flips the subscriber referenced by token to confirmed.
func (s *Subscription) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return &errors.ErrorWithStatusCode{Message: "Missing confirmation token", StatusCode: http.StatusBadRequest}
	}
	return s.storage.ConfirmSubscriber(ctx, utils.HashToken(token))
}
