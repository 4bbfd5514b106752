// Package rbac holds the admin check used by catalog and order controllers.
//
// Tokens never carry the admin flag, so every check re-reads the user:
//
//	if err := gate.RequireAdmin(ctx, c.UserID()); err != nil { ... }
package rbac

import (
	"context"
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller is unknown or not an admin.
var ErrForbidden = errors.New("rbac: forbidden")

// AdminLookup reports the admin flag of a stored user. found is false when
// no user has the id.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID string) (admin bool, found bool, err error)
}

type Gate struct {
	users AdminLookup
}

func NewGate(users AdminLookup) *Gate {
	return &Gate{users: users}
}

// RequireAdmin returns nil only when userID belongs to an admin.
func (g *Gate) RequireAdmin(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrForbidden
	}
	admin, found, err := g.users.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("rbac: load user: %w", err)
	}
	if !found || !admin {
		return ErrForbidden
	}
	return nil
}
