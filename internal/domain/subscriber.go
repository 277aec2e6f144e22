package domain

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/inkpress-dev/inkpress/internal/errors"
)

// SubscriberEmail is an email address that passed format validation.
// Stored addresses are re-parsed on read: a value that was valid at
// confirmation time may have degraded in storage.
type SubscriberEmail struct {
	address string
}

func ParseSubscriberEmail(s string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return SubscriberEmail{}, &errors.ErrorWithStatusCode{
			Message:    "not a valid email address",
			StatusCode: http.StatusBadRequest,
		}
	}
	return SubscriberEmail{address: addr.Address}, nil
}

func (e SubscriberEmail) String() string {
	return e.address
}

type ConfirmedSubscriber struct {
	Email SubscriberEmail
}

// Subscriber is a row of the subscriptions table.
type Subscriber struct {
	Id     SubscriberId
	Email  string
	Name   string
	Status string
}
