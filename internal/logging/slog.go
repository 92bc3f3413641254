package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const otelLoggerName = "floorview"

// SlogManager assembles the server's slog pipeline: console plus log
// file always, OTel and Graylog outputs when configured.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
	gelf        io.Closer
}

// NewSlogManager creates an empty manager; call Setup before Logger.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a config log level string to slog.Level, defaulting
// to info for anything unrecognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup wires the handler fan-out. file may be nil (console only);
// provider nil disables the OTel bridge; an empty graylogAddr disables
// GELF shipping.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, graylogAddr string) {
	m.logProvider = provider

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps in UTC RFC3339 so file and remote outputs agree.
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(otelLoggerName, otelslog.WithLoggerProvider(provider)))
	}

	if graylogAddr != "" {
		gelfHandler, closer, err := NewGelfHandler(graylogAddr, opts)
		if err != nil {
			slog.Default().Warn("Graylog output disabled", "address", graylogAddr, "error", err)
		} else {
			handlers = append(handlers, gelfHandler)
			m.gelf = closer
		}
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured logger, or the process default before
// Setup has run.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush pushes pending OTel records out.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}

// Close releases the Graylog connection if one was opened.
func (m *SlogManager) Close() error {
	if m.gelf == nil {
		return nil
	}
	return m.gelf.Close()
}
