package internal

import "context"

type ctxKey string

// ContextOwnerKey holds the caller-supplied owner (user) identifier.
const ContextOwnerKey ctxKey = "ownerID"

func OwnerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ownerID, ok := ctx.Value(ContextOwnerKey).(string); ok {
		return ownerID
	}
	return ""
}

func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ContextOwnerKey, ownerID)
}
