package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

var errNoUser = errors.New("no user in context")

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := extractBearerToken(r)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := utils.ParseToken(tokenStr)
		if err != nil {
			logrus.WithError(err).WithField("path", r.URL.Path).Debug("rejected token")
			utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetAuthenticatedUser(r *http.Request) (*models.Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*models.Claims)
	if !ok || claims == nil {
		return nil, errNoUser
	}
	return claims, nil
}

// extractBearerToken accepts "Bearer <token>" and, for older clients, a bare token.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Fields(authHeader)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	}
	return "", errors.New("invalid authorization format")
}

func RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			if !allowed[claims.Role] {
				utils.RespondError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanActAs reports whether the caller may touch data owned by userID.
func CanActAs(r *http.Request, userID int64) bool {
	claims, err := GetAuthenticatedUser(r)
	if err != nil {
		return false
	}
	return claims.IsAdmin() || claims.UserID == userID
}
