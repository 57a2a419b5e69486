package services

import "context"

type contextKey string

const (
	worksheetIDKey contextKey = "worksheet_id"
	requesterKey   contextKey = "requester"
	requestIDKey   contextKey = "request_id"
)

// WithWorksheetID annotates context with the worksheet identifier.
func WithWorksheetID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, worksheetIDKey, id)
}

// WorksheetIDFromContext extracts the worksheet identifier if present.
func WorksheetIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(worksheetIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequester annotates context with the requesting user identity.
func WithRequester(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requesterKey, id)
}

// RequesterFromContext extracts the requesting user identity if present.
func RequesterFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requesterKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
