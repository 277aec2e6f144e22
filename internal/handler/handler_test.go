package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/inkpress-dev/inkpress/internal/config"
	"github.com/inkpress-dev/inkpress/internal/domain"
	"github.com/inkpress-dev/inkpress/internal/service"
)

// Func-field mocks for the service layer.

type MockAuthService struct {
	ValidateCredentialsFunc func(ctx context.Context, creds domain.Credentials) (domain.UserId, error)
	LoginFunc               func(ctx context.Context, creds domain.Credentials) (string, error)
	ChangePasswordFunc      func(ctx context.Context, username domain.Username, current, newPassword domain.Secret) error
}

func (m *MockAuthService) ValidateCredentials(ctx context.Context, creds domain.Credentials) (domain.UserId, error) {
	return m.ValidateCredentialsFunc(ctx, creds)
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	return m.LoginFunc(ctx, creds)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, username domain.Username, current, newPassword domain.Secret) error {
	return m.ChangePasswordFunc(ctx, username, current, newPassword)
}

type MockNewsletterService struct {
	PublishFunc func(ctx context.Context, creds domain.Credentials, issue domain.NewsletterIssue, key domain.IdempotencyKey) (*domain.SavedResponse, error)
	calls       int
}

func (m *MockNewsletterService) Publish(ctx context.Context, creds domain.Credentials, issue domain.NewsletterIssue, key domain.IdempotencyKey) (*domain.SavedResponse, error) {
	m.calls++
	return m.PublishFunc(ctx, creds, issue, key)
}

type MockSubscriptionService struct {
	SubscribeFunc func(ctx context.Context, email, name string) error
	ConfirmFunc   func(ctx context.Context, token string) error
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, email, name string) error {
	return m.SubscribeFunc(ctx, email, name)
}

func (m *MockSubscriptionService) Confirm(ctx context.Context, token string) error {
	return m.ConfirmFunc(ctx, token)
}

type MockHealth struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealth) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			BaseUrl:       "http://localhost:8080",
			JwtTTLSeconds: 3600,
			SecureCookies: false,
		},
		Private: config.Private{JwtKey: "test-signing-key"},
	}
}

func newTestHandler(auth service.AuthService, newsletter service.NewsletterService, subscription service.SubscriptionService, health HealthChecker) *Handler {
	return New(auth, newsletter, subscription, health, testConfig(), testLogger())
}
