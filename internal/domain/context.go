package domain

import "context"

type principalKey struct{}

// WithPrincipal stores a Principal in the context. The pipeline attaches the
// principal exactly once per request; handlers only read it.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the Principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
