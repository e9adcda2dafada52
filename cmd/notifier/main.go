package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/vibeflow/notifier/internal/config"
	"github.com/vibeflow/notifier/internal/deliverylog"
	"github.com/vibeflow/notifier/internal/dispatch"
	"github.com/vibeflow/notifier/internal/format"
	"github.com/vibeflow/notifier/internal/logging"
	"github.com/vibeflow/notifier/internal/server"
	"github.com/vibeflow/notifier/internal/signature"
	"github.com/vibeflow/notifier/internal/slackapi"
	"github.com/vibeflow/notifier/internal/webhook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.New("vibeflow-notifier", cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		// Serve anyway: every request answers 500 until the environment
		// is corrected, which is easier to diagnose than a crash loop.
		log.Error().Err(err).Msg("configuration incomplete")
	}

	var store deliverylog.Store
	if sqlite, err := deliverylog.OpenSQLite(cfg.DBPath); err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("delivery log unavailable, falling back to memory")
		store = deliverylog.NewMemoryStore()
	} else {
		store = sqlite
	}
	defer store.Close()

	client := slackapi.New(cfg.APIBaseURL, cfg.BotToken)
	recorder := deliverylog.NewRecorder(store, log)
	dispatcher := dispatch.New(client, recorder, cfg.WebhookURL, cfg.RatePerSec, log)
	background := dispatch.NewBackground(log)
	handler := webhook.New(cfg, signature.New(cfg.SigningSecret), format.New(cfg.SiteBaseURL), dispatcher, background, store, log)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Router(),
	}
	if err := server.Run(ctx, srv, cfg.ShutdownTimeout, log); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// Give detached welcome deliveries a chance to finish.
	if !background.Drain(cfg.ShutdownTimeout) {
		log.Warn().Msg("background deliveries still in flight at exit")
	}
}
