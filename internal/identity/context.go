// Package identity carries the authenticated caller through a request context.
package identity

import "context"

type contextKey string

const (
	userIDKey    contextKey = "userID"
	accountIDKey contextKey = "accountID"
)

// With stores the authenticated user and account on the request context.
func With(ctx context.Context, userID string, accountID int64) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, accountIDKey, accountID)
}

func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

func AccountID(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(accountIDKey).(int64)
	return accountID, ok && accountID > 0
}
