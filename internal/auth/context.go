package auth

import "context"

type identityContextKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
// The identity is explicit request state, never ambient process state.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFrom extracts the authenticated identity from the context, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}
