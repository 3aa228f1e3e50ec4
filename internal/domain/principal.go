package domain

import "context"

// Principal identifica al usuario autenticado de la consola y el token con el que
// se llama al backend en su nombre.
type Principal struct {
	UserID     string
	TenantID   string
	TenantSlug string
	Role       string
	Token      string
}

type principalKey struct{}

// WithPrincipal adjunta el principal al contexto de la petición.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom devuelve el principal del contexto, si existe.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
