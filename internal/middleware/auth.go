package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bridgekit/bridgekit/internal/auth"
	"github.com/bridgekit/bridgekit/internal/identity"
	"github.com/bridgekit/bridgekit/internal/model"
)

// CallerCache caches verified callers keyed by token digest.
// Satisfied by cache.Cache.
type CallerCache interface {
	GetCaller(ctx context.Context, cacheKey string) (*model.Caller, error)
	SetCaller(ctx context.Context, cacheKey string, caller *model.Caller, ttl time.Duration) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier identity.TokenVerifier
	Cache    CallerCache
	CacheTTL time.Duration
}

// Auth returns a middleware that authenticates callers by bearer token.
// Tokens are verified against the identity provider; verified callers
// are cached briefly so repeated calls don't round-trip on every request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			cacheKey := auth.TokenCacheKey(token)

			// Check cache first
			if cfg.Cache != nil {
				if caller, err := cfg.Cache.GetCaller(r.Context(), cacheKey); err == nil && caller != nil {
					next.ServeHTTP(w, r.WithContext(auth.ContextWithCaller(r.Context(), caller)))
					return
				}
			}

			verified, err := cfg.Verifier.VerifyToken(r.Context(), token)
			if err != nil {
				reason := "verification_error"
				if errors.Is(err, identity.ErrInvalidToken) {
					reason = "invalid_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			caller := &model.Caller{
				UserID:      verified.ID,
				DisplayName: verified.DisplayName,
			}

			if cfg.Cache != nil {
				if err := cfg.Cache.SetCaller(r.Context(), cacheKey, caller, cfg.CacheTTL); err != nil {
					// Cache failures never block an authenticated request.
					cfg.Logger.Warn("failed to cache caller", slog.String("error", err.Error()))
				}
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithCaller(r.Context(), caller)))
		})
	}
}

// extractBearerToken pulls the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "unauthorized",
		"code":  "UNAUTHORIZED",
	})
}
