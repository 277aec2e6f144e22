package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/inkpress-dev/inkpress/internal/domain"
)

// BeginPublish claims the idempotency key for userId, or reports what already
// happened to it.
//
// The atomic insert on the (user_id, idempotency_key) primary key is the
// single-flight primitive: exactly one concurrent caller ever observes
// ClaimGranted, across process and instance boundaries. The claim commits in
// its own transaction, so a crash before CompletePublish leaves the row
// claimed-incomplete — it is never silently lost or replayed with a stale
// result.
func (s *Storage) BeginPublish(ctx context.Context, userId domain.UserId, key domain.IdempotencyKey) (domain.Claim, error) {
	result, err := s.db.ExecContext(ctx, `
        INSERT INTO idempotency_responses (user_id, idempotency_key)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`,
		userId, key,
	)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return domain.Claim{}, fmt.Errorf("failed to check claim insert: %w", err)
	}
	if inserted == 1 {
		return domain.Claim{State: domain.ClaimGranted}, nil
	}

	// Row already exists: either complete (replay) or still owned by a
	// concurrent request (in progress).
	var (
		statusCode sql.NullInt64
		headersRaw []byte
		body       []byte
		saved      domain.SavedResponse
	)
	err = s.db.QueryRowContext(ctx, `
        SELECT response_status_code, response_headers, response_body, created_at
        FROM idempotency_responses
        WHERE user_id = $1 AND idempotency_key = $2`,
		userId, key,
	).Scan(&statusCode, &headersRaw, &body, &saved.CreatedAt)
	if err != nil {
		// The row was present a moment ago; losing it here is a storage fault.
		return domain.Claim{}, fmt.Errorf("failed to load saved response: %w", err)
	}

	if !statusCode.Valid {
		return domain.Claim{State: domain.ClaimInProgress}, nil
	}

	saved.StatusCode = int(statusCode.Int64)
	saved.Body = body
	saved.Headers = http.Header{}
	if len(headersRaw) > 0 {
		if err := json.Unmarshal(headersRaw, &saved.Headers); err != nil {
			return domain.Claim{}, fmt.Errorf("failed to decode saved headers: %w", err)
		}
	}
	return domain.Claim{State: domain.ClaimReplay, Saved: &saved}, nil
}

// CompletePublish transitions a claimed-incomplete row to complete. It must
// be called exactly once, by the caller that received ClaimGranted, after the
// fan-out finished. The NULL guard makes the transition one-way.
func (s *Storage) CompletePublish(ctx context.Context, userId domain.UserId, key domain.IdempotencyKey, response *domain.SavedResponse) error {
	headersRaw, err := json.Marshal(response.Headers)
	if err != nil {
		return fmt.Errorf("failed to encode response headers: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
            UPDATE idempotency_responses
            SET response_status_code = $3,
                response_headers = $4,
                response_body = $5
            WHERE user_id = $1 AND idempotency_key = $2
              AND response_status_code IS NULL`,
			userId, key, response.StatusCode, headersRaw, response.Body,
		)
		if err != nil {
			return fmt.Errorf("failed to complete idempotency row: %w", err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check completion update: %w", err)
		}
		if updated == 0 {
			return errors.New("idempotency row missing or already completed")
		}
		return nil
	})
}

// IncompleteClaims counts claimed-incomplete rows older than the given
// interval. Such rows mark publishes that crashed mid-flight; they are an
// operational signal, not something this service retries on its own.
func (s *Storage) IncompleteClaims(ctx context.Context, olderThan string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
        SELECT count(*)
        FROM idempotency_responses
        WHERE response_status_code IS NULL
          AND created_at < now() - $1::interval`,
		olderThan,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count incomplete claims: %w", err)
	}
	return n, nil
}
