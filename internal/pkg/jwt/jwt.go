package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod rejects tokens signed with anything
	// other than the configured algorithm.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort guards against HS512 keys under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned for structurally valid but expired
	// tokens.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken covers malformed tokens and failed validation.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT is what the application needs from a token implementation:
// mint a token for a user and verify one presented back.
type JWT interface {
	Generate(uid int64, email string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config collects the inputs for building a token implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is stamped into and required from every token.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// TTLMinutes is how long a minted token stays valid.
	TTLMinutes time.Duration
	// Clock supplies the current time.
	Clock clocker
	// UUID generates unique token IDs.
	UUID generator
}

// Claims extends the registered JWT claims with the authenticated
// user's identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
}

// GetAuth returns the claims stored in ctx, or nil when the request
// is unauthenticated.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth attaches verified claims to ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
