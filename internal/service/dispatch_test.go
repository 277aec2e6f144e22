package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockMailer records every delivery attempt.
type MockMailer struct {
	mu       sync.Mutex
	SendFunc func(recipientEmail, subject, htmlBody, textBody string) error
	sent     []string
}

func (m *MockMailer) Send(recipientEmail, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	m.sent = append(m.sent, recipientEmail)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, htmlBody, textBody)
	}
	return nil
}

func (m *MockMailer) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

var testIssue = domain.NewsletterIssue{
	Title:       "Issue #1",
	HtmlContent: "<p>Hello</p>",
	TextContent: "Hello",
}

func TestDispatch(t *testing.T) {
	t.Run("delivers to every valid subscriber", func(t *testing.T) {
		mailer := &MockMailer{}
		d := NewDispatcher(mailer, testLogger())

		report, err := d.Dispatch(context.Background(), testIssue, []string{"a@x.com", "b@x.com", "c@x.com"})
		require.NoError(t, err)
		assert.Equal(t, FanoutReport{Delivered: 3}, report)
		assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, mailer.Sent())
	})

	t.Run("a malformed stored address is skipped, not fatal", func(t *testing.T) {
		mailer := &MockMailer{}
		d := NewDispatcher(mailer, testLogger())

		report, err := d.Dispatch(context.Background(), testIssue, []string{"ok1@x.com", "not-an-email", "ok2@x.com"})
		require.NoError(t, err)
		assert.Equal(t, FanoutReport{Delivered: 2, Skipped: 1}, report)
		assert.Equal(t, []string{"ok1@x.com", "ok2@x.com"}, mailer.Sent())
	})

	t.Run("a transport failure aborts the fan-out", func(t *testing.T) {
		transportErr := errors.New("smtp: connection reset")
		mailer := &MockMailer{
			SendFunc: func(recipientEmail, subject, htmlBody, textBody string) error {
				if recipientEmail == "b@x.com" {
					return transportErr
				}
				return nil
			},
		}
		d := NewDispatcher(mailer, testLogger())

		report, err := d.Dispatch(context.Background(), testIssue, []string{"a@x.com", "b@x.com", "c@x.com"})
		require.Error(t, err)
		assert.ErrorIs(t, err, transportErr)
		assert.Equal(t, FanoutReport{Delivered: 1}, report)
		// c@x.com was never attempted
		assert.Equal(t, []string{"a@x.com", "b@x.com"}, mailer.Sent())
	})

	t.Run("empty subscriber list is a successful no-op", func(t *testing.T) {
		mailer := &MockMailer{}
		d := NewDispatcher(mailer, testLogger())

		report, err := d.Dispatch(context.Background(), testIssue, nil)
		require.NoError(t, err)
		assert.Equal(t, FanoutReport{}, report)
		assert.Empty(t, mailer.Sent())
	})
}
