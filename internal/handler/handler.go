package handler

import (
	"context"
	"log/slog"

	"github.com/inkpress-dev/inkpress/internal/config"
	"github.com/inkpress-dev/inkpress/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth         service.AuthService
	newsletter   service.NewsletterService
	subscription service.SubscriptionService
	health       HealthChecker
	cfg          *config.Config
	log          *slog.Logger
}

func New(auth service.AuthService, newsletter service.NewsletterService, subscription service.SubscriptionService, health HealthChecker, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{auth, newsletter, subscription, health, cfg, log}
}
