package domain

import "context"

// Principal is the authenticated caller derived from a validated token.
type Principal struct {
	Subject     string
	AccountID   int64
	Authorities []string
}

// HasAuthority reports whether the principal was granted a.
func (p *Principal) HasAuthority(a string) bool {
	if p == nil {
		return false
	}
	for _, got := range p.Authorities {
		if got == a {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
