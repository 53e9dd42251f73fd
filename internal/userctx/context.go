package userctx

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// WithUserID installs the externally-verified caller identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserID returns the caller identity, if any was installed.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}
