package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	internal_errors "github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestSubscribe(t *testing.T) {
	t.Run("forwards the form fields", func(t *testing.T) {
		var gotEmail, gotName string
		subscription := &MockSubscriptionService{
			SubscribeFunc: func(ctx context.Context, email, name string) error {
				gotEmail, gotName = email, name
				return nil
			},
		}
		h := newTestHandler(nil, nil, subscription, nil)

		form := url.Values{"email": {"jane@example.com"}, "name": {"Jane Doe"}}
		r := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.Subscribe(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Check your inbox to confirm your subscription", w.Body.String())
		assert.Equal(t, "jane@example.com", gotEmail)
		assert.Equal(t, "Jane Doe", gotName)
	})

	t.Run("service rejection is propagated", func(t *testing.T) {
		subscription := &MockSubscriptionService{
			SubscribeFunc: func(ctx context.Context, email, name string) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Invalid subscriber email", StatusCode: http.StatusBadRequest}
			},
		}
		h := newTestHandler(nil, nil, subscription, nil)

		r := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader("email=bad&name=x"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.Subscribe(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConfirmSubscription(t *testing.T) {
	t.Run("confirms by query token", func(t *testing.T) {
		var gotToken string
		subscription := &MockSubscriptionService{
			ConfirmFunc: func(ctx context.Context, token string) error {
				gotToken = token
				return nil
			},
		}
		h := newTestHandler(nil, nil, subscription, nil)

		r := httptest.NewRequest(http.MethodGet, "/subscriptions/confirm?token=sometoken", nil)
		w := httptest.NewRecorder()
		h.ConfirmSubscription(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Your subscription is confirmed", w.Body.String())
		assert.Equal(t, "sometoken", gotToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		subscription := &MockSubscriptionService{
			ConfirmFunc: func(ctx context.Context, token string) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Unknown confirmation token", StatusCode: http.StatusUnauthorized}
			},
		}
		h := newTestHandler(nil, nil, subscription, nil)

		r := httptest.NewRequest(http.MethodGet, "/subscriptions/confirm?token=bogus", nil)
		w := httptest.NewRecorder()
		h.ConfirmSubscription(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
