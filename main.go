// Package main provides the main entry point for the OTP Messenger service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amirphl/otp-messenger/app/handlers"
	"github.com/amirphl/otp-messenger/app/router"
	"github.com/amirphl/otp-messenger/app/services"
	businessflow "github.com/amirphl/otp-messenger/business_flow"
	"github.com/amirphl/otp-messenger/config"
	"github.com/amirphl/otp-messenger/repository"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/gofiber/fiber/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.Config
	server    *fiber.App
	store     repository.KeyValueStore
	stopFuncs []func()
}

// @title OTP Messenger API
// @version 1.0
// @description Send one-time passcodes to contacts by SMS and browse the sent history.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logWriter, closeLog, err := initializeLogging(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer closeLog()

	log.Printf("Starting OTP Messenger %s (%s, sms mode: %s)", cfg.Deployment.Version, cfg.Deployment.Environment, cfg.SMS.Mode)

	app, err := initializeApplication(cfg, logWriter)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	if err := app.server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	// Compose shutdown waits for in-flight sends, so it must finish before the store closes
	for _, fn := range app.stopFuncs {
		fn()
	}

	if err := app.store.Close(); err != nil {
		log.Printf("Error closing storage: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogging routes the standard logger to stdout, a rotated file, or both.
// The returned writer also receives the HTTP access log.
func initializeLogging(cfg config.LoggingConfig) (io.Writer, func(), error) {
	if cfg.Output == "stdout" {
		log.SetOutput(os.Stdout)
		return os.Stdout, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	var out io.Writer = rotator
	if cfg.Output == "both" {
		out = io.MultiWriter(os.Stdout, rotator)
	}

	log.SetOutput(out)
	return out, func() { _ = rotator.Close() }, nil
}

// initializeStorage opens the key/value medium that holds the message log
func initializeStorage(ctx context.Context, cfg config.StorageConfig) (repository.KeyValueStore, error) {
	switch cfg.Provider {
	case config.StorageProviderMemory:
		log.Println("Using in-memory storage; the message history is lost on restart")
		return repository.NewMemoryKeyValueStore(), nil
	default:
		store, err := repository.NewSQLiteKeyValueStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		log.Printf("SQLite storage opened at %s", cfg.SQLitePath)
		return store, nil
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.Config, logWriter io.Writer) (*Application, error) {
	ctx := context.Background()

	store, err := initializeStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	contactRepo, err := repository.NewContactRepositoryFromFile(cfg.Contacts.File)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	messageRepo := repository.NewMessageRepository(ctx, store, cfg.Storage.MessagesKey)

	// Initialize services
	otpGenerator := services.NewOTPGenerator(utils.OTPLength)
	smsGateway := services.NewSMSGateway(&cfg.SMS)

	// Initialize flows
	contactFlow := businessflow.NewContactFlow(contactRepo)
	messageFlow := businessflow.NewMessageFlow(messageRepo)
	composeFlow := businessflow.NewComposeFlow(
		contactRepo,
		messageRepo,
		otpGenerator,
		smsGateway,
		businessflow.ComposeSettings{
			CountdownSteps: cfg.Compose.RedirectCountdown,
			TickInterval:   cfg.Compose.RedirectTick,
			IdleTimeout:    cfg.Compose.IdleTimeout,
			SweepInterval:  cfg.Compose.SweepInterval,
			DrainTimeout:   cfg.Compose.DrainTimeout,
		},
	)
	stopSweeper := composeFlow.StartSweeper()

	// Initialize handlers and router
	appRouter := router.NewFiberRouter(cfg, router.Handlers{
		Health:  handlers.NewHealthHandler(cfg),
		Contact: handlers.NewContactHandler(contactFlow),
		Compose: handlers.NewComposeHandler(composeFlow),
		Message: handlers.NewMessageHandler(messageFlow),
	}, logWriter)

	return &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		store:     store,
		stopFuncs: []func(){stopSweeper, composeFlow.Shutdown},
	}, nil
}
