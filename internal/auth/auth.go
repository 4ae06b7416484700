// Package auth provides authentication and role-based authorization for
// the catalog API.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthMethod represents the authentication method used.
type AuthMethod string

const (
	// AuthMethodNone indicates no authentication.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodJWT indicates JWT bearer token authentication.
	AuthMethodJWT AuthMethod = "jwt"
)

// Roles known to the authorization layer.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AuthInfo holds authenticated identity information.
type AuthInfo struct {
	Method  AuthMethod
	Subject string
	Role    string
}

// Authenticator validates a request and returns auth info.
type Authenticator interface {
	Authenticate(r *http.Request) (*AuthInfo, error)
	Method() AuthMethod
}

// Gate issues and revokes access tokens.
type Gate interface {
	// Login verifies the credential and returns a signed token bound
	// to the user's identity and role.
	Login(username, password string) (string, *AuthInfo, error)

	// Revoke adds the token to the revocation blocklist. Revoking an
	// already-revoked token is a no-op.
	Revoke(token string)
}

// Sentinel errors for authentication and authorization failures.
var (
	ErrUnauthenticated    = errors.New("authentication token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("admin access required")
)

// Authorize checks that the identity carries the required role.
func Authorize(info *AuthInfo, role string) error {
	if info == nil || info.Role != role {
		return ErrForbidden
	}
	return nil
}

// contextKey is the type for context keys in this package.
type contextKey string

// authInfoKey is the context key for AuthInfo.
const authInfoKey contextKey = "auth_info"

// FromContext retrieves AuthInfo from the context.
func FromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(*AuthInfo)
	return info, ok
}

// WithAuthInfo stores AuthInfo in the context.
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}
