package auth

import (
	"context"

	"github.com/seu-repo/evstation/internal/domain"
)

type principalKey struct{}

// WithPrincipal returns a child context carrying the request principal.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// CurrentPrincipal resolves the acting principal of the request or fails with Unauthenticated.
func CurrentPrincipal(ctx context.Context) (domain.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || !p.Authenticated() {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
