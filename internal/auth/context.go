package auth

import "context"

type ctxKey string

const claimsKey ctxKey = "auth_claims"

// ContextWithClaims stores verified token claims in the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts the authenticated caller's claims from context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
