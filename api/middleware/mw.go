package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/firewatch-geo/firewatch-services/db"
	"github.com/firewatch-geo/firewatch-services/internal/authn"
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// PrincipalFrom extracts the authenticated principal from the request
// context. The second return is false for anonymous requests.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	return p, ok
}

// Authenticate resolves the Authorization header to a principal. A request
// without the header stays anonymous and proceeds; whether that is
// acceptable is the downstream handler's decision. A malformed or invalid
// credential is always a 401, never a 403 - clients distinguish "please log
// in" from "you lack permission".
func Authenticate(geoDB *db.GeoportalDB, codec *authn.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "Authenticate").Logger()

				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					// Anonymous request
					next.ServeHTTP(w, r)
					return
				}

				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader || strings.TrimSpace(token) == "" {
					logger.Debug().Msg("malformed authorization header")
					writeAuthError(w, "invalid_credential", "authorization header must be of the form 'Bearer <token>'")
					return
				}

				claims, err := codec.Verify(strings.TrimSpace(token))
				if err != nil {
					logger.Debug().Err(err).Msg("bearer token rejected")
					writeAuthError(w, authErrorCode(err), err.Error())
					return
				}

				// A verified token can still reference a deleted user
				user, err := geoDB.GetUserByID(claims.UserID)
				if err != nil {
					if apiErr, ok := models.AsAPIError(err); ok && apiErr.Kind == models.KindNotFound {
						logger.Debug().Int64("uid", claims.UserID).Msg("token subject no longer exists")
						writeAuthError(w, "unknown_subject", "token subject no longer exists")
						return
					}
					logger.Error().Err(err).Msg("failed to resolve token subject")
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}

				principal := models.Principal{
					User: *user,
					Caps: models.ResolveCapabilities(*user),
				}
				ctx := context.WithValue(r.Context(), PrincipalKey, principal)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

func authErrorCode(err error) string {
	switch {
	case errors.Is(err, authn.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, authn.ErrUnknownAlgorithm):
		return "unknown_algorithm"
	default:
		return "malformed_token"
	}
}

func writeAuthError(w http.ResponseWriter, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.Response{
		Success:      0,
		ErrorCode:    code,
		ErrorDetails: details,
	})
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
