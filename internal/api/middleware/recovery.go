package middleware

import (
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/signing-vault/internal/api/errors"
	"github.com/narvanalabs/signing-vault/pkg/logger"
)

// Recovery returns a middleware that recovers from panics and logs the error.
func Recovery(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := logger.RequestIDFromContext(r.Context())

					log.Error("panic recovered",
						"error", rec,
						"error_code", apierrors.CodeInternalError,
						"stack_trace", apierrors.GetStackTrace(),
						"request_id", requestID,
						"method", r.Method,
						"path", r.URL.Path,
					)

					apierrors.WriteError(w, apierrors.NewInternalError(
						apierrors.CodeInternalError,
						"An unexpected error occurred",
					))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
