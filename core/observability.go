package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

func (e *Engine) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if e == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	for _, key := range []string{"entity_kind", "event_kind", "external_id", "deal_id"} {
		if value := strings.TrimSpace(fmt.Sprint(contextFields[key])); value != "" && value != "<nil>" {
			tags[key] = value
		}
	}

	e.recordCounter(ctx, "crmsync."+operation+".total", 1, tags)
	e.recordHistogram(ctx, "crmsync."+operation+".duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	if err != nil {
		e.logError(ctx, operation+" failed", contextFields)
		return
	}
	e.logInfo(ctx, operation+" succeeded", contextFields)
}

func (e *Engine) logInfo(ctx context.Context, message string, fields map[string]any) {
	e.logWithLevel(ctx, "info", message, fields)
}

func (e *Engine) logWarn(ctx context.Context, message string, fields map[string]any) {
	e.logWithLevel(ctx, "warn", message, fields)
}

func (e *Engine) logError(ctx context.Context, message string, fields map[string]any) {
	e.logWithLevel(ctx, "error", message, fields)
}

func (e *Engine) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	logger := e.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (e *Engine) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if e == nil || e.metricsRecorder == nil {
		return
	}
	e.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (e *Engine) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if e == nil || e.metricsRecorder == nil {
		return
	}
	e.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
