package auth

import (
	"context"

	"github.com/braiinybear/backoffice-service/internal/models"
)

// Identity is the verified caller carried by a session.
type Identity struct {
	ID   string          `json:"id"`
	Role models.UserRole `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

type identityKey struct{}

// ContextWithIdentity returns a child context carrying id.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the verified identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
