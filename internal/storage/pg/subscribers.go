package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
	internal_errors "github.com/inkpress-dev/inkpress/internal/errors"
)

// ConfirmedSubscriberEmails returns the raw stored addresses of all confirmed
// subscribers. The values are not assumed clean: the dispatcher re-validates
// each one before attempting delivery.
func (s *Storage) ConfirmedSubscriberEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email FROM subscriptions WHERE status = $1",
		domain.SubscriberConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed subscribers: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}
	return emails, nil
}

// SaveSubscriber inserts a pending subscriber, or returns the existing row's
// id when the email is already known (so a lost confirmation email can be
// re-sent without violating the unique constraint).
func (s *Storage) SaveSubscriber(ctx context.Context, email, name string) (domain.SubscriberId, error) {
	var id domain.SubscriberId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
            INSERT INTO subscriptions (email, name, status)
            VALUES ($1, $2, $3)
            ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
            RETURNING id`,
			email, name, domain.SubscriberPending,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to save subscriber: %w", err)
		}
		return nil
	})
	return id, err
}

// SaveSubscriptionToken stores the hash of a confirmation token. Replaces any
// previous token for the same subscriber.
func (s *Storage) SaveSubscriptionToken(ctx context.Context, subscriberId domain.SubscriberId, tokenHash string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM subscription_tokens WHERE subscriber_id = $1", subscriberId,
		); err != nil {
			return fmt.Errorf("failed to drop previous token: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subscription_tokens (token_hash, subscriber_id) VALUES ($1, $2)",
			tokenHash, subscriberId,
		); err != nil {
			return fmt.Errorf("failed to save subscription token: %w", err)
		}
		return nil
	})
}

// ConfirmSubscriber flips the subscriber referenced by tokenHash to confirmed
// and burns the token, atomically.
func (s *Storage) ConfirmSubscriber(ctx context.Context, tokenHash string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var subscriberId domain.SubscriberId
		err := tx.QueryRowContext(ctx,
			"SELECT subscriber_id FROM subscription_tokens WHERE token_hash = $1",
			tokenHash,
		).Scan(&subscriberId)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "Unknown confirmation token", StatusCode: http.StatusUnauthorized}
			}
			return fmt.Errorf("failed to look up confirmation token: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE subscriptions SET status = $1 WHERE id = $2",
			domain.SubscriberConfirmed, subscriberId,
		); err != nil {
			return fmt.Errorf("failed to confirm subscriber: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM subscription_tokens WHERE token_hash = $1", tokenHash,
		); err != nil {
			return fmt.Errorf("failed to burn confirmation token: %w", err)
		}
		return nil
	})
}
