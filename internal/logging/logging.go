// Package logging wraps logrus with the service's level handling and
// per-request trace IDs.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "error"

type contextKey string

const traceIDKey contextKey = "trace_id"

// Logger is a thin wrapper around logrus.Logger.
type Logger struct {
	*logrus.Logger
	service string
}

// ParseLevel converts a level name to a logrus level. Unset or empty input
// resolves to the default level; unknown names are an error.
func ParseLevel(level string) (logrus.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		name = DefaultLevel
	}
	switch name {
	case "critical", "fatal":
		return logrus.FatalLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	}
	return 0, fmt.Errorf("invalid log level %q (supported: critical|error|warning|info|debug)", level)
}

// New creates a logger writing to stderr at the given level.
func New(service, level string) (*Logger, error) {
	return newWithOutput(service, level, os.Stderr)
}

// NewDefault creates a logger at the default level, for callers that have no
// configuration yet.
func NewDefault(service string) *Logger {
	l, _ := newWithOutput(service, DefaultLevel, os.Stderr)
	return l
}

func newWithOutput(service, level string, out io.Writer) (*Logger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(parsed)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Logger{Logger: base, service: service}, nil
}

// NewTraceID returns a fresh trace identifier.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace ID on the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the trace ID stored on the context, if any.
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// LogRequest emits one line per handled HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.WithFields(logrus.Fields{
		"service":  l.service,
		"trace_id": TraceID(ctx),
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": duration.String(),
	}).Info("http request")
}
