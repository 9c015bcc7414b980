package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldAnalysisID = "analysis_id"
	FieldEvaluator  = "evaluator"
	FieldMediaType  = "media_type"
	FieldStage      = "stage"
	FieldProvider   = "remote_provider"
	FieldModel      = "remote_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// WithRemote tags a logger with the remote backend it talks to.
func WithRemote(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}
