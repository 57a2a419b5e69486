package logging

import (
	"context"
	"log/slog"

	"lectern/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldWorksheetID is the standardized structured logging key for worksheet identifiers.
	FieldWorksheetID = "worksheet_id"
	// FieldRequester is the standardized structured logging key for requesting user identities.
	FieldRequester = "requester"
	// FieldRegion is the standardized structured logging key for region names.
	FieldRegion = "region"
	// FieldStep is the standardized structured logging key for 1-based narration step numbers.
	FieldStep = "step"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.WorksheetIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldWorksheetID, id))
	}
	if requester, ok := services.RequesterFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequester, requester))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
