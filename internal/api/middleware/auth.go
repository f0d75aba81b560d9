package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/signing-vault/internal/api/errors"
	"github.com/narvanalabs/signing-vault/internal/auth"
	"github.com/narvanalabs/signing-vault/pkg/logger"
)

type contextKey string

// UserEmailKey is the context key for the authenticated user email.
// The user ID is stored under logger.UserIDKey so request logs carry it.
const UserEmailKey contextKey = "user_email"

// GetUserEmail extracts the user email from the request context.
func GetUserEmail(ctx context.Context) string {
	if v, ok := ctx.Value(UserEmailKey).(string); ok {
		return v
	}
	return ""
}

// AuthMiddleware validates bearer tokens on admin routes.
type AuthMiddleware struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(authService *auth.Service, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		authService: authService,
		logger:      log,
	}
}

// Authenticate is a middleware that validates the JWT in the Authorization header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			apierrors.WriteError(w, apierrors.NewUnauthorized(apierrors.SubcodeMissing, "Missing authentication"))
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Debug("JWT validation failed", "error", err)
			if errors.Is(err, auth.ErrExpiredToken) {
				apierrors.WriteError(w, apierrors.NewUnauthorized(apierrors.SubcodeExpired, "Token has expired"))
				return
			}
			apierrors.WriteError(w, apierrors.NewUnauthorized("", "Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
