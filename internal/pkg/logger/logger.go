// Package logger builds the slog loggers used by the API server and the CLI.
//
// Every record written through a context-aware call (InfoContext, LogAttrs, ...)
// picks up correlation_id, request_id and operation from the context, so a
// calculation can be traced from the HTTP request down to the engine.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// CorrelationIDKey is the context key for correlation ID
	CorrelationIDKey contextKey = "correlation_id"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// OperationKey is the context key for the calculation being served (emi, compound_interest, ...)
	OperationKey contextKey = "operation"
)

// contextAttrs lists the context values copied onto every record, in output order.
var contextAttrs = []contextKey{CorrelationIDKey, RequestIDKey, OperationKey}

// Config holds logger configuration.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // json, text
	Output    io.Writer
	AddSource bool

	// Service and Version are attached to every record when set.
	Service string
	Version string
}

// DefaultConfig returns default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

// OutputFromName maps "stdout" / "stderr" to a writer. Anything else is stdout.
func OutputFromName(name string) io.Writer {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// ParseLevel converts a level name into a slog.Level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger for cfg. A nil cfg means DefaultConfig.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(output, opts)
	} else {
		base = slog.NewJSONHandler(output, opts)
	}

	var attrs []slog.Attr
	if cfg.Service != "" {
		attrs = append(attrs, slog.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}
	if len(attrs) > 0 {
		base = base.WithAttrs(attrs)
	}

	return slog.New(&ContextHandler{handler: base})
}

// Setup creates a logger for cfg and installs it as slog's default.
func Setup(cfg *Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(&ContextHandler{handler: slog.NewTextHandler(io.Discard, nil)})
}

// ContextHandler decorates a slog.Handler with the IDs stored in the context.
type ContextHandler struct {
	handler slog.Handler
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range contextAttrs {
		if v := stringValue(ctx, key); v != "" {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithCorrelationID adds correlation ID to context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// GetCorrelationID extracts correlation ID from context
func GetCorrelationID(ctx context.Context) string {
	return stringValue(ctx, CorrelationIDKey)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithOperation tags the context with the calculation being served
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// GetOperation extracts the operation from context
func GetOperation(ctx context.Context) string {
	return stringValue(ctx, OperationKey)
}

// WithAllIDs sets correlation and request IDs at once. Empty values are skipped.
func WithAllIDs(ctx context.Context, correlationID, requestID string) context.Context {
	if correlationID != "" {
		ctx = WithCorrelationID(ctx, correlationID)
	}
	if requestID != "" {
		ctx = WithRequestID(ctx, requestID)
	}
	return ctx
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
