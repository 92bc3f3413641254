package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/planviz/floorview/internal/config"
	"github.com/planviz/floorview/internal/logging"
	"github.com/planviz/floorview/internal/monitor"
	intOtel "github.com/planviz/floorview/internal/otel"
	"github.com/planviz/floorview/internal/storage"
	"github.com/planviz/floorview/internal/telemetry"
)

// version info - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	ServiceName string = "floorview"
)

func main() {
	configDir := flag.String("config", ".", "directory containing floorview.cfg.json")
	flag.Parse()

	sessionStart := time.Now()

	configLoaded := true
	if err := config.Load(*configDir); err != nil {
		config.LoadDefaults()
		configLoaded = false
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs dir %s: %v\n", logsDir, err)
		os.Exit(1)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, ServiceName, sessionStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	otelLogFile, err := os.Create(filepath.Join(logsDir, "floorview_otel.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create otel log file: %v\n", err)
		os.Exit(1)
	}
	defer otelLogFile.Close()

	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  ServiceName,
		BatchTimeout: config.GetDuration("otel.batchTimeout"),
		LogWriter:    otelLogFile,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up otel: %v\n", err)
		os.Exit(1)
	}

	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}

	slogManager := logging.NewSlogManager()
	slogManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider(), graylogAddr)
	defer slogManager.Close()

	logger := slogManager.Logger()
	logger.Info("Starting floorview server", "version", CurrentVersion, "buildDate", BuildDate)
	if !configLoaded {
		logger.Warn("No config file found, using defaults", "configDir", *configDir)
	}

	zlog := zerolog.New(logFile).With().Timestamp().Logger()

	storageCfg := config.Storage()
	backend, err := storage.NewBackend(storageCfg, zlog)
	if err != nil {
		logger.Error("Failed to create storage backend", "type", storageCfg.Type, "error", err)
		os.Exit(1)
	}
	if err := backend.Init(); err != nil {
		logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	telemetryMgr := telemetry.NewManager(zlog, filepath.Join(logsDir, "telemetry_backup.json.gz"))
	if err := telemetryMgr.Connect(); err != nil {
		logger.Debug("Telemetry disabled", "reason", err)
		telemetryMgr = nil
	}
	if telemetryMgr != nil {
		defer telemetryMgr.Close()
	}

	sessions := NewSessionManager(backend, telemetryMgr, logger)
	defer sessions.CloseAll()

	statusSvc := monitor.NewService(monitor.Dependencies{
		SessionCount: sessions.Count,
		IsStorageValid: func() bool {
			_, err := backend.ListPlans()
			return err == nil
		},
		StorageType: storageCfg.Type,
	})

	app := fiber.New(fiber.Config{
		AppName:      "floorview " + CurrentVersion,
		ReadTimeout:  config.GetDuration("server.readTimeout"),
		WriteTimeout: config.GetDuration("server.writeTimeout"),
	})
	app.Use(recover.New())

	registerRoutes(app, backend, sessions, statusSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := config.GetString("server.addr")
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	logger.Info("Listening", "addr", addr)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
		if err := slogManager.Flush(shutdownCtx); err != nil {
			logger.Error("Log flush failed", "error", err)
		}
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("OTel shutdown failed", "error", err)
		}
	}
}
