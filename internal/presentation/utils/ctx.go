package utils

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID binds the authenticated user to the request context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user behind the request. Empty means the
// request was not authenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
