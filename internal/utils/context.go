package utils

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const ContextIdentityKey contextKey = "identity"

// Identity is the authenticated caller as decoded from the session token.
type Identity struct {
	ID       int64
	Username string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(Identity)
	return id, ok
}

// PathID parses a positive integer URL parameter. ok is false when the
// parameter is absent or not a positive integer.
func PathID(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
