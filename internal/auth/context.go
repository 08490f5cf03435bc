package auth

import (
	"context"
)

type contextKey string

const companyIDKey contextKey = "companyID"

// ContextWithCompanyID returns a new context that carries the tenant scope.
func ContextWithCompanyID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, companyIDKey, id)
}

// CompanyIDFromContext retrieves the tenant scope from the context, if any.
func CompanyIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(companyIDKey)
	if value == nil {
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
