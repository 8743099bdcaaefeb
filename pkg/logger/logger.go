package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// log is the process-wide logger. The zero value discards everything until Init runs.
var log zerolog.Logger

type ctxKey struct{}

// Init configures the global logger: console output in development, JSON otherwise.
func Init(env string, logLevel string) {
	var output io.Writer = os.Stdout
	if isDevelopment(env) {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	log = New(output, logLevel)
}

// New builds a logger writing to w at the given level.
func New(w io.Writer, logLevel string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(ParseLevel(logLevel)).
		With().
		Timestamp().
		Str("service", "storefront").
		Logger()
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(logLevel string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func isDevelopment(env string) bool {
	return env == "development" || env == "dev" || env == ""
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request-scoped logger, or the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

func WithSessionID(l zerolog.Logger, sessionID string) zerolog.Logger {
	return l.With().Str("cart_session", sessionID).Logger()
}

// --- Convenience Methods ---

func Info() *zerolog.Event {
	return log.Info()
}

// --- Structured Logging Helpers ---

// DBQuery logs a finished database query at debug level, or at warn when it failed.
func DBQuery(ctx context.Context, sql string, duration time.Duration, err error) {
	l := WithContext(ctx)
	if err != nil {
		l.Warn().Err(err).Str("query", sql).Dur("duration_ms", duration).Msg("DB Query Failed")
		return
	}
	l.Debug().Str("query", sql).Dur("duration_ms", duration).Msg("DB Query")
}

func ServiceStart(name, version, port string) {
	log.Info().
		Str("name", name).
		Str("version", version).
		Str("port", port).
		Msg("Service Started")
}

func ServiceStop(name string) {
	log.Info().
		Str("name", name).
		Msg("Service Stopped")
}
