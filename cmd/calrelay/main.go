package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calrelay/config"
	"calrelay/internal/api"
	"calrelay/internal/api/handlers"
	"calrelay/internal/gcal"
	"calrelay/internal/logging"
	"calrelay/internal/notify"
	"calrelay/internal/storage/sqlite"
	"calrelay/internal/storage/tokenfile"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout   = 10 * time.Second
	defaultConfigPath = "config.json"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Parse command-line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	useEnv := flag.Bool("env", false, "Load configuration from environment variables")
	flag.Parse()

	// Pick up a local .env when present (hosted deployments set real env vars)
	_ = godotenv.Load()

	// Load configuration
	var cfg *config.Config
	var err error

	if *useEnv {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath)
	}

	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Format: cfg.Logging.Format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	// Initialize token store
	var store gcal.TokenStore
	switch cfg.Google.TokenStore {
	case "sqlite":
		logger.Info("Using SQLite token store", "path", cfg.Database.Path)
		sqliteStore, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize token store: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		logger.Info("Using file token store", "path", cfg.Google.TokenPath)
		store = tokenfile.New(cfg.Google.TokenPath)
	}

	// Build the OAuth client configuration. A missing client secret is
	// not fatal: the scheduling endpoint keeps working with an already
	// valid stored token, only /authorize and refreshes need it.
	oauthCfg, err := gcal.NewOAuthConfig(gcal.Config{
		CredentialsJSON: cfg.Google.CredentialsJSON,
		CredentialsPath: cfg.Google.CredentialsPath,
		RedirectBaseURL: cfg.Google.RedirectBaseURL,
	})
	if err != nil {
		logger.Warn("Google OAuth client not configured; /authorize and token refresh are unavailable",
			"component", "main",
			"error", err,
		)
		oauthCfg = nil
	}

	manager := gcal.NewManager(oauthCfg, store, logger)

	client := gcal.NewClient(manager, gcal.EventSettings{
		CalendarID:     cfg.Google.CalendarID,
		TimeZone:       cfg.Google.TimeZone,
		Location:       cfg.Google.EventLocation,
		Description:    cfg.Google.EventDescription,
		DefaultSummary: cfg.Google.DefaultSummary,
	})

	// Optional appointment notifications
	var notifier handlers.Notifier
	if cfg.Telegram.BotToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
		notifier = tn
		logger.Info("Telegram notifications enabled", "chat_id", cfg.Telegram.ChatID)
	}

	// Optional background token refresher
	var refresher *gcal.Refresher
	if cfg.Google.RefreshIntervalMinutes > 0 {
		refresher = gcal.NewRefresher(manager, time.Duration(cfg.Google.RefreshIntervalMinutes)*time.Minute, logger)
		go refresher.Start()
	}

	router := api.NewRouter(api.RouterConfig{
		OAuth:      oauthCfg,
		TokenStore: store,
		Manager:    manager,
		Scheduler:  client,
		Notifier:   notifier,
		APIKey:     cfg.Security.APIKey,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			"component", "main",
			"addr", server.Addr,
		)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Starting graceful shutdown", "signal", sig.String())

		if refresher != nil {
			refresher.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("Graceful shutdown complete")
	}

	return nil
}
