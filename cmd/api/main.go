package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/neuroledger/internal/clock"
	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/Dan9191/neuroledger/internal/handler"
	"github.com/Dan9191/neuroledger/internal/integrations/keyrate"
	"github.com/Dan9191/neuroledger/internal/integrations/llm"
	"github.com/Dan9191/neuroledger/internal/notify"
	"github.com/Dan9191/neuroledger/internal/repository"
	"github.com/Dan9191/neuroledger/internal/service"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	_ "modernc.org/sqlite"
)

// openDB opens and migrates a database of the given dialect.
func openDB(ctx context.Context, dialect repository.Dialect, conn string) (*sql.DB, *repository.Repository, error) {
	driverName := "postgres"
	if dialect == repository.SQLite {
		driverName = "sqlite"
	}
	db, err := sql.Open(driverName, conn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == repository.SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	repo := repository.NewRepository(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	dialect, err := repository.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Fatalf("Failed to select database: %v", err)
	}
	db, repo, err := openDB(ctx, dialect, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var store repository.Store = repo
	if cfg.CachePath != "" && dialect != repository.SQLite {
		cacheDB, cache, err := openDB(ctx, repository.SQLite, cfg.CachePath)
		if err != nil {
			logger.Fatalf("Failed to initialize local cache: %v", err)
		}
		defer cacheDB.Close()
		store = repository.NewHybridStore(repo, cache, logger)
		logger.Infof("Local cache enabled at %s", cfg.CachePath)
	}

	// Initialize integrations
	opts := []service.Option{
		service.WithKeyRate(keyrate.NewClient(cfg, logger, clock.NewReal())),
		service.WithChat(llm.NewClient(cfg, logger)),
	}
	var notifiers []notify.Notifier
	if cfg.EmailEnabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg, logger))
	}
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, "", logger)
		if err != nil {
			logger.Fatalf("Failed to initialize telegram: %v", err)
		}
		notifiers = append(notifiers, tg)
	}
	if len(notifiers) > 0 {
		opts = append(opts, service.WithNotifiers(notifiers...))
	}

	// Initialize layers
	svc := service.NewService(store, logger, cfg, opts...)
	h := handler.NewHandler(svc, logger)

	// Schedule reminders
	scheduler := cron.New()
	if len(notifiers) > 0 {
		if _, err := svc.ScheduleReminders(scheduler, cfg.ReminderSchedule); err != nil {
			logger.Fatalf("Failed to schedule reminders: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Setup router
	r := handler.NewRouter(h, cfg)
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h2c.NewHandler(c.Handler(r), &http2.Server{}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
