package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/familyhub/internal/auth"
	"github.com/dukerupert/familyhub/internal/model"
)

// UserLookup resolves a user by id. A missing user is (nil, nil).
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// DemoIdentity attaches the configured demo user to every request. With
// userID <= 0 requests pass through anonymously.
func DemoIdentity(users UserLookup, userID int64, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if userID <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := users.GetByID(r.Context(), userID)
			if err != nil {
				logger.Error("resolve demo user", "user_id", userID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if u == nil {
				logger.Warn("demo user not found", "user_id", userID)
				next.ServeHTTP(w, r)
				return
			}
			ctx := auth.WithAuth(r.Context(), auth.AuthContext{UserID: u.ID, Role: u.Role, Demo: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
