// Package auth implements the credential service: bcrypt password hashing
// and self-contained HS256 bearer tokens. Nothing is stored server side, so a
// token stays valid until it expires.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophfeed/internal/common"
)

// DefaultTokenValidity is the lifetime of issued tokens.
const DefaultTokenValidity = time.Hour

// Claims is the signed claim set: registered claims plus the user id and
// email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Identity is what a valid token proves.
type Identity struct {
	UserID string
	Email  string
}

// TokenIssuer signs and validates bearer tokens.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// TokenOption customizes a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now, mostly for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) { t.now = now }
}

// WithValidity overrides DefaultTokenValidity.
func WithValidity(d time.Duration) TokenOption {
	return func(t *TokenIssuer) {
		if d > 0 {
			t.validity = d
		}
	}
}

func NewTokenIssuer(secretKey []byte, opts ...TokenOption) *TokenIssuer {
	t := &TokenIssuer{secret: secretKey, validity: DefaultTokenValidity, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Issue signs a token for userID / email expiring validity after now.
func (t *TokenIssuer) Issue(userID, email string) (string, error) {
	issuedAt := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.validity)),
		},
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(t.secret)
}

// Validate parses and verifies tokenString. Every failure (expiry, signature
// mismatch, unexpected algorithm, malformed input, missing user id) is
// reported as common.ErrInvalidToken.
func (t *TokenIssuer) Validate(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, errors.Join(common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
