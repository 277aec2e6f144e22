package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/inkpress-dev/inkpress/internal/config"
	"github.com/inkpress-dev/inkpress/internal/logger"
	"github.com/inkpress-dev/inkpress/internal/router"
	"github.com/inkpress-dev/inkpress/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	log := logger.New(os.Stdout, cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, err := setup.SetupDependencies(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Public.Host, cfg.Public.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
