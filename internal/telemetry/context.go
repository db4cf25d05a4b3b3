package telemetry

import "context"

type ctxKey int

const (
	turnIDKey ctxKey = iota
	sessionIDKey
)

// WithTurnID tags ctx with the ID of the user submission being processed.
// A nil ctx is treated as context.Background().
func WithTurnID(ctx context.Context, id string) context.Context {
	return withValue(ctx, turnIDKey, id)
}

// TurnIDFromContext reports the turn ID carried by ctx. Empty IDs count as
// absent.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, turnIDKey)
}

// WithSessionID tags ctx with the conversation session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withValue(ctx, sessionIDKey, id)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, sessionIDKey)
}

func withValue(ctx context.Context, key ctxKey, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, id)
}

func stringValue(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, _ := ctx.Value(key).(string)
	return s, s != ""
}

// IDs returns the turn and session IDs carried by ctx as a fresh map of event
// fields. Absent IDs are left out.
func IDs(ctx context.Context) map[string]any {
	m := make(map[string]any, 2)
	if id, ok := TurnIDFromContext(ctx); ok {
		m["turn_id"] = id
	}
	if id, ok := SessionIDFromContext(ctx); ok {
		m["session_id"] = id
	}
	return m
}
