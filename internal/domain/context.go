package domain

import "context"

type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context. Core
// operations always receive the acting principal explicitly; the context
// carrier exists only for the HTTP boundary.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
