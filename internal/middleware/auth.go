package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/metrics"
	"github.com/piadas/piadas/internal/model"
)

// Auth gate response messages.
const (
	MsgTokenExpired = "Token expirado"
	MsgTokenInvalid = "Token inválido"
)

// TokenParser verifies a bearer token and returns the identity it carries.
type TokenParser interface {
	Parse(token string) (*model.AuthContext, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  TokenParser
	Metrics metrics.Recorder
}

// Auth returns a middleware that requires "Authorization: Bearer <token>".
// The verified identity is stored in the request context; every failure is
// answered with 403 before the wrapped handler runs.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(reason, metricReason, msg string) {
				recorder.IncTokenRejected(metricReason)
				logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeDetail(w, http.StatusForbidden, msg)
			}

			token, ok := extractBearerToken(r)
			if !ok {
				reject("missing_token", metrics.ReasonMissing, MsgTokenInvalid)
				return
			}

			authCtx, err := cfg.Tokens.Parse(token)
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				reject("token_expired", metrics.ReasonExpired, MsgTokenExpired)
				return
			case err != nil:
				reject("token_invalid", metrics.ReasonInvalid, MsgTokenInvalid)
				return
			}

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the token from the Authorization header.
// The scheme is matched case-insensitively.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
