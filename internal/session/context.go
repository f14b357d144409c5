package session

import "context"

type contextKey struct{}

// Context is the cart session attached to every storefront request. Handlers
// read it instead of inspecting headers.
type Context struct {
	ID string
}

func WithContext(ctx context.Context, s Context) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Context, bool) {
	s, ok := ctx.Value(contextKey{}).(Context)
	if !ok || s.ID == "" {
		return Context{}, false
	}

	return s, true
}
