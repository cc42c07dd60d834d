package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/railmon/railmon/internal/aggregate"
	"github.com/railmon/railmon/internal/alerts"
	"github.com/railmon/railmon/internal/api"
	"github.com/railmon/railmon/internal/auth"
	"github.com/railmon/railmon/internal/config"
	"github.com/railmon/railmon/internal/metrics"
	"github.com/railmon/railmon/internal/poller"
	"github.com/railmon/railmon/internal/railway"
	"github.com/railmon/railmon/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("railmon starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	token := cfg.Railway.Token()
	if token == "" {
		slog.Error("API token not set", "env", cfg.Railway.TokenEnv)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"endpoint", cfg.Railway.Endpoint,
		"token_kind", cfg.Railway.TokenKind,
		"interval_minutes", cfg.Poll.IntervalMinutes,
		"http_port", cfg.HTTP.Port,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := railway.NewClient(cfg.Railway.Endpoint, railway.Credential{
		Token: token,
		Kind:  railway.TokenKind(cfg.Railway.TokenKind),
	})

	p := poller.New(aggregate.New(client), cfg.Poll.Interval())

	// Alert rules are evaluated after every cycle, including failed ones,
	// so status-based rules can fire.
	alertEngine := alerts.New(cfg.Alerts)
	p.OnCycle(func(snap *aggregate.Snapshot, status poller.Status) {
		alertEngine.Evaluate(snap, string(status))
	})

	// WebSocket hub pushes each new snapshot to connected clients.
	hub := ws.New()
	if cfg.WS.On() {
		p.OnUpdate(hub.Broadcast)
		go hub.Run(ctx)
	}

	// Watch config file so an interval edit takes effect without a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			p.SetInterval(updated.Poll.Interval())
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	go p.Run(ctx)

	// HTTP server: read API (optionally behind API key auth), WebSocket
	// stream, Prometheus metrics.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", auth.APIKeyMiddleware(
		cfg.HTTP.Auth.Mode,
		cfg.HTTP.Auth.EffectiveHeader(),
		cfg.HTTP.Auth.Key(),
		api.New(p, alertEngine),
	))
	httpMux.Handle("/metrics", metrics.New(p))
	if cfg.WS.On() {
		httpMux.Handle("/ws/stream", hub)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTP.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("railmon shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
