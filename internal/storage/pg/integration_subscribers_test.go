package pg

import (
	"context"
	"testing"

	"github.com/google/uuid"
	internal_errors "github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSubscriber(t *testing.T) {
	ctx := context.Background()

	id, err := storage.SaveSubscriber(ctx, "save@example.com", "First")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	// Subscribing again with the same email keeps the row and updates the name.
	again, err := storage.SaveSubscriber(ctx, "save@example.com", "Second")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestSubscriptionTokenReplacement(t *testing.T) {
	ctx := context.Background()

	id, err := storage.SaveSubscriber(ctx, "token@example.com", "Jane")
	require.NoError(t, err)

	require.NoError(t, storage.SaveSubscriptionToken(ctx, id, "hash-one"))
	require.NoError(t, storage.SaveSubscriptionToken(ctx, id, "hash-two"))

	// The replaced token no longer confirms anything.
	err = storage.ConfirmSubscriber(ctx, "hash-one")
	require.Error(t, err)
	assert.Equal(t, 401, internal_errors.StatusCode(err))

	require.NoError(t, storage.ConfirmSubscriber(ctx, "hash-two"))
}

func TestConfirmSubscriber(t *testing.T) {
	ctx := context.Background()

	id, err := storage.SaveSubscriber(ctx, "confirm@example.com", "Jane")
	require.NoError(t, err)
	require.NoError(t, storage.SaveSubscriptionToken(ctx, id, "confirm-hash"))

	emails, err := storage.ConfirmedSubscriberEmails(ctx)
	require.NoError(t, err)
	assert.NotContains(t, emails, "confirm@example.com", "pending subscribers are not listed")

	require.NoError(t, storage.ConfirmSubscriber(ctx, "confirm-hash"))

	emails, err = storage.ConfirmedSubscriberEmails(ctx)
	require.NoError(t, err)
	assert.Contains(t, emails, "confirm@example.com")

	// The token is burned on use.
	err = storage.ConfirmSubscriber(ctx, "confirm-hash")
	require.Error(t, err)
	assert.Equal(t, 401, internal_errors.StatusCode(err))
}

func TestConfirmSubscriberUnknownToken(t *testing.T) {
	err := storage.ConfirmSubscriber(context.Background(), "never-issued")
	require.Error(t, err)
	assert.Equal(t, 401, internal_errors.StatusCode(err))
}
