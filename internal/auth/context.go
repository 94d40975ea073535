// Package auth carries the acting household member through request contexts.
package auth

import (
	"context"

	"github.com/dukerupert/familyhub/internal/model"
)

type contextKey struct{}

type AuthContext struct {
	UserID int64
	Role   model.Role
	// Demo is set when the identity comes from configuration rather than a login.
	Demo bool
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}
