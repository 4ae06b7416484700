package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/san360/gh-demo/internal/auth"
	"github.com/san360/gh-demo/internal/model"
)

// publicPaths are paths that don't require authentication. Login and
// logout must stay reachable without a valid token.
var publicPaths = map[string]bool{
	"/health":          true,
	"/metrics":         true,
	"/api/auth/login":  true,
	"/api/auth/logout": true,
}

// mutatingMethods are HTTP methods that change catalog state and
// therefore require the admin role.
var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// eventsPath is the WebSocket events feed. Browser WebSocket clients
// cannot set an Authorization header on the upgrade request.
const eventsPath = "/ws/events"

// Auth returns a middleware that authenticates requests and enforces
// the admin role on mutating methods. Public paths, CORS preflight
// requests, and upgrade requests for the events feed are excluded. An
// Upgrade header on any other path does not bypass the gate.
func Auth(
	authenticator auth.Authenticator,
	logger *zap.Logger,
) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(
			w http.ResponseWriter,
			r *http.Request,
		) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Skip auth for CORS preflight
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			// Skip auth for the events feed upgrade only
			if isWebSocketUpgrade(r) && r.URL.Path == eventsPath {
				next.ServeHTTP(w, r)
				return
			}

			info, err := authenticator.Authenticate(r)
			if err != nil {
				logger.Warn("authentication failed",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeAuthError(w, http.StatusUnauthorized, authErrorMessage(err))
				return
			}

			if mutatingMethods[r.Method] {
				if err := auth.Authorize(info, auth.RoleAdmin); err != nil {
					logger.Warn("authorization failed",
						zap.String("subject", info.Subject),
						zap.String("role", info.Role),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					writeAuthError(w, http.StatusForbidden, "Admin access required")
					return
				}
			}

			logger.Debug("authentication successful",
				zap.String("subject", info.Subject),
				zap.String("role", info.Role),
				zap.String("path", r.URL.Path),
			)

			ctx := auth.WithAuthInfo(r.Context(), info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isPublicPath checks whether the given path is a public path that does
// not require authentication. Matches exact public paths and their
// sub-paths, but rejects paths that merely share a prefix without a
// path separator.
func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}

	for p := range publicPaths {
		if strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}

// isWebSocketUpgrade checks whether the request is a WebSocket upgrade
// request.
func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// authErrorMessage maps an authentication error to the user-facing
// message returned in the response body.
func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "Token has been revoked"
	case errors.Is(err, auth.ErrUnauthenticated):
		return "Authentication token required"
	default:
		return "Invalid token"
	}
}

// writeAuthError writes a JSON error response for an auth failure. A
// 401 response carries a WWW-Authenticate challenge.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="products"`)
	}
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}
