package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/haukened/focusgate/internal/guard/common/clock"
	"github.com/haukened/focusgate/internal/guard/common/log"
	"github.com/haukened/focusgate/internal/guard/config"
	"github.com/haukened/focusgate/internal/guard/gateways/authority"
	"github.com/haukened/focusgate/internal/guard/gateways/msgapi"
	"github.com/haukened/focusgate/internal/guard/repos/decisioncache"
	"github.com/haukened/focusgate/internal/guard/repos/delaywindow"
	"github.com/haukened/focusgate/internal/guard/repos/eventlog"
	"github.com/haukened/focusgate/internal/guard/repos/state"
	"github.com/haukened/focusgate/internal/guard/services/intercept"
	"github.com/haukened/focusgate/internal/guard/services/statuspoll"
)

const (
	version = "0.1.0-dev"
	appName = "focusgated"

	healthProbeTimeout = 2 * time.Second
)

// Application holds all the components of the enforcement daemon.
type Application struct {
	config  *config.AppConfig
	store   *state.BoltStore
	tracker *delaywindow.Tracker
	poller  *statuspoll.Poller
	server  *msgapi.Server
	client  *authority.Client
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"listen":        cfg.Listen,
		"authority_url": cfg.AuthorityURL,
		"state_path":    cfg.StatePath,
	}, "Starting focusgate daemon")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Daemon failed")
	}

	log.Info(nil, "focusgate daemon stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := &clock.RealClock{}
	logger := log.GetLogger()

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	client, err := authority.New(authority.Options{
		BaseURL: cfg.AuthorityURL,
		Timeout: time.Duration(cfg.AuthorityTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create authority client: %w", err)
	}

	cache, err := decisioncache.New(cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second, clk)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}
	log.Info(map[string]any{
		"size":        cfg.CacheSize,
		"ttl_seconds": cfg.CacheTTLSeconds,
	}, "Decision cache configured")

	toggle := state.NewToggle(store, logger)
	notices := msgapi.NewNotices(clk)

	events := eventlog.New(eventlog.Options{
		Bound:  cfg.EventLogSize,
		Store:  store,
		Clock:  clk,
		Logger: logger,
	})

	tracker := delaywindow.New(delaywindow.Options{
		Store:    store,
		Notifier: notices,
		Clock:    clk,
		Logger:   logger,
	})

	interceptor := intercept.New(intercept.Options{
		Authority:     client,
		Cache:         cache,
		Tracker:       tracker,
		Events:        events,
		Toggle:        toggle,
		Clock:         clk,
		Logger:        logger,
		AuthorityHost: authorityHost(cfg.AuthorityURL),
	})

	poller := statuspoll.New(statuspoll.Options{
		Client:   client,
		Interval: time.Duration(cfg.StatusPollSeconds) * time.Second,
		Logger:   logger,
	})

	server := msgapi.New(msgapi.Options{
		Addr:        cfg.Listen,
		Interceptor: interceptor,
		Status:      poller,
		Toggle:      toggle,
		Events:      events,
		Notices:     notices,
		UI:          client,
		Logger:      logger,
	})

	return &Application{
		config:  cfg,
		store:   store,
		tracker: tracker,
		poller:  poller,
		server:  server,
		client:  client,
	}, nil
}

// authorityHost extracts the hostname the interceptor must exempt.
func authorityHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Run starts the daemon and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	// Probe the authority once so startup logs show whether it is up.
	// Enforcement fails open either way, so this is informational.
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	if err := app.client.Health(probeCtx); err != nil {
		log.Warn(map[string]any{"error": err}, "Authority not reachable at startup, failing open")
	} else {
		log.Info(nil, "Authority reachable")
	}
	cancel()

	if err := app.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start message surface: %w", err)
	}

	go app.poller.Run(ctx)

	log.Info(map[string]any{"address": app.server.Address()}, "focusgate daemon started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	if err := app.server.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during message surface shutdown")
	}
	app.tracker.Stop()
	if err := app.store.Close(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error closing state store")
	}

	log.Info(nil, "Graceful shutdown completed")
	return nil
}
