package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldComponent = "component"

	// Domain
	FieldModel     = "model" // model id; the console encoder renders its glyph
	FieldEmotionID = "emotion_id"
	FieldTier      = "tier"
	FieldLanguage  = "lang"

	// Operations
	FieldOperation  = "operation"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldPath       = "path"
	FieldVersion    = "version"

	// Errors
	FieldError = "error"
)

type contextKey string

const (
	sessionIDKey contextKey = "logger_session_id"
	componentKey contextKey = "logger_component"
)

// WithSessionID adds a session ID to the context for logging
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs
// suitable for Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, FieldSessionID, id)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// FromContext returns parent (or the global Logger when nil) enriched with
// fields extracted from ctx.
func FromContext(ctx context.Context, parent *zap.SugaredLogger) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return parent
	}
	return parent.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	reg := registry.NewRegistry(cat, logger.ComponentLogger("registry"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	sessLogger := logger.ChildLogger(base, logger.FieldSessionID, sess.ID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
