package setup

import (
	"context"
	"log/slog"

	"github.com/inkpress-dev/inkpress/internal/config"
	"github.com/inkpress-dev/inkpress/internal/handler"
	"github.com/inkpress-dev/inkpress/internal/jwt"
	"github.com/inkpress-dev/inkpress/internal/mailer"
	"github.com/inkpress-dev/inkpress/internal/middleware"
	"github.com/inkpress-dev/inkpress/internal/service"
	"github.com/inkpress-dev/inkpress/internal/storage/pg"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes everything the router needs.
func SetupDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, error) {
	storage, err := pg.New(ctx, &cfg.Private.Pg, log)
	if err != nil {
		return nil, err
	}

	smtp := mailer.New(&cfg.Private.Smtp, log)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, jwtService, log)
	dispatcher := service.NewDispatcher(smtp, log)
	newsletter := service.NewNewsletter(auth, storage, storage, dispatcher, log)
	subscription := service.NewSubscription(storage, smtp, cfg.Public.BaseUrl, log)

	h := handler.New(auth, newsletter, subscription, storage, cfg, log)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(jwtService, log),
		Config:         cfg,
	}, nil
}
