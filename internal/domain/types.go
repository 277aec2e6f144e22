package domain

import (
	"github.com/google/uuid"
)

type (
	Username       = string
	UserId         = uuid.UUID
	SubscriberId   = uuid.UUID
	IdempotencyKey = string
)

// Subscriber statuses as persisted in the subscriptions table.
const (
	SubscriberPending   = "pending_confirmation"
	SubscriberConfirmed = "confirmed"
)
