package middleware

import "context"

// Request identity travels on the context under unexported keys so only
// this package can write it.
type contextKey int

const (
	ctxUserID contextKey = iota
	ctxRole
	ctxStoreID
)

func ctxString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxUserID)
}

// RoleFromContext returns the authenticated actor's role, or "".
func RoleFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxRole)
}

// StoreIDFromContext returns the store id claimed by the token, or "".
func StoreIDFromContext(ctx context.Context) string {
	return ctxString(ctx, ctxStoreID)
}

// WithUserID stamps the user identifier onto the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole stamps the actor's role onto the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithStoreID stamps the vendor's store identifier onto the context.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}
