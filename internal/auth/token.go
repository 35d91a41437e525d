package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the single role claim the service recognizes.
const AdminRole = "admin"

// Claims is the signed payload of an admin session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, time-boxed admin tokens.
// Tokens are stateless: verification is purely a function of the token's
// signed contents plus the current time, so an unexpired token cannot be
// revoked short of rotating the signing key.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec constructs a codec over the configured signing key and
// lifetime. Both are resolved once at startup.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the codec clock. Used by tests to simulate expiry.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// Issue signs a token carrying the admin role with expiry now+ttl.
func (c *TokenCodec) Issue() (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("signing key is not configured")
	}
	now := c.now()
	claims := &Claims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature integrity, expiry and the role claim. It returns
// nil only when all three hold.
func (c *TokenCodec) Verify(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	if claims.Role != AdminRole {
		return fmt.Errorf("unrecognized role claim")
	}
	return nil
}
