// Package httpserver exposes the auth, ledger and backup services as a thin
// JSON API. It holds no invariants of its own: every rule lives in the
// services it fronts.
package httpserver

import (
	"context"

	"github.com/akarpov87/budget-keeper/internal/model"
)

type ctxKey string

const identityKey ctxKey = "bk.identity"

// WithIdentity stores the authenticated identity in the request context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the bound identity resolved by the auth middleware.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
