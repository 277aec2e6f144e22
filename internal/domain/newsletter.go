package domain

import (
	"net/http"
	"time"
)

// NewsletterIssue is the transient payload of one publish request.
// It is never persisted.
type NewsletterIssue struct {
	Title       string
	HtmlContent string
	TextContent string
}

// SavedResponse is the response persisted under an idempotency key and
// returned verbatim on replay.
type SavedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

// ClaimState describes the outcome of claiming an idempotency key.
type ClaimState int

const (
	// ClaimGranted: the caller owns the key and must execute the side effects.
	ClaimGranted ClaimState = iota
	// ClaimReplay: the key was already executed; the saved response must be
	// returned without re-executing anything.
	ClaimReplay
	// ClaimInProgress: another request holds the key and has not finished.
	ClaimInProgress
)

// Claim is the result of IdempotencyStorage.BeginPublish.
// Saved is non-nil only when State == ClaimReplay.
type Claim struct {
	State ClaimState
	Saved *SavedResponse
}
