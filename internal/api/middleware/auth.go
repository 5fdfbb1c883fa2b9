package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scrimnight/scrimnight/internal/api/response"
	"github.com/scrimnight/scrimnight/internal/auth"
)

const identityKey contextKey = "identity"

// RequireOrganizer is middleware that extracts the X-API-Key header and
// checks it against the organizer key. Missing or invalid keys return 401.
// When organizer auth is disabled every request passes as an anonymous
// organizer.
func RequireOrganizer(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get("X-API-Key")
			if rawKey == "" && authService.Enabled() {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			identity, err := authService.Authenticate(rawKey)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidKey) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", requestID)
					return
				}
				slog.Error("failed to authenticate request", "error", err, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
