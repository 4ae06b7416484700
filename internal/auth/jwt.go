package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

// Claims are the JWT claims carried by issued tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTGate issues, verifies, and revokes HS256-signed bearer tokens. It
// implements both Authenticator and Gate. Revoked tokens are kept in an
// in-memory blocklist keyed by token value; expired entries are pruned
// lazily on revocation.
type JWTGate struct {
	secret []byte
	ttl    time.Duration
	users  map[string]User
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token -> expiry
}

// NewJWTGate creates a JWTGate with the given signing secret, token
// lifetime, and user set.
func NewJWTGate(secret string, ttl time.Duration, users map[string]User) (*JWTGate, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt auth: signing secret must not be empty")
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("jwt auth: at least one user must be configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &JWTGate{
		secret:  []byte(secret),
		ttl:     ttl,
		users:   users,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// Login verifies the credential against the configured user set and
// issues a token bound to the username and role, expiring after the
// configured lifetime.
func (g *JWTGate) Login(username, password string) (string, *AuthInfo, error) {
	user, exists := g.users[username]
	if !exists {
		return "", nil, fmt.Errorf("%w: unknown user", ErrInvalidCredentials)
	}

	if !user.CheckPassword(password) {
		return "", nil, fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	}

	now := g.now().UTC()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(g.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return token, &AuthInfo{
		Method:  AuthMethodJWT,
		Subject: username,
		Role:    user.Role,
	}, nil
}

// Authenticate extracts a bearer token from the Authorization header,
// checks the revocation blocklist, and verifies signature and expiry.
func (g *JWTGate) Authenticate(r *http.Request) (*AuthInfo, error) {
	token, err := BearerToken(r)
	if err != nil {
		return nil, err
	}

	if g.isRevoked(token) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenRevoked)
	}

	claims, err := g.verify(token)
	if err != nil {
		return nil, err
	}

	return &AuthInfo{
		Method:  AuthMethodJWT,
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}

// Method returns the authentication method type.
func (g *JWTGate) Method() AuthMethod {
	return AuthMethodJWT
}

// Revoke adds the token to the blocklist. Unparsable tokens are ignored
// since they can never authenticate anyway. Idempotent.
func (g *JWTGate) Revoke(token string) {
	claims, err := g.verify(token)
	if err != nil && !errors.Is(err, ErrTokenExpired) {
		return
	}

	expiry := g.now().Add(g.ttl)
	if claims != nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for t, exp := range g.revoked {
		if exp.Before(now) {
			delete(g.revoked, t)
		}
	}

	g.revoked[token] = expiry
}

// isRevoked reports whether the token is on the blocklist.
func (g *JWTGate) isRevoked(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, revoked := g.revoked[token]
	return revoked
}

// verify parses the token and validates signature, structure, and
// expiry.
func (g *JWTGate) verify(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v", t.Header["alg"],
				)
			}
			return g.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return g.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Claims are decoded before validation, so the expiry
			// is still available to the revocation blocklist.
			return claims, fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns ErrUnauthenticated when no bearer credential is present.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrUnauthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrUnauthenticated
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrUnauthenticated
	}

	return token, nil
}
