package identity

import (
	"strings"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/auth"
)

// TokenValidator is the part of the credential service the resolver needs.
type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

type Resolver struct {
	tokens TokenValidator
}

func NewResolver(tokens TokenValidator) *Resolver {
	return &Resolver{tokens: tokens}
}

// Resolve maps a raw Authorization header value to an AuthContext. Missing,
// malformed, expired and forged tokens all resolve to Anonymous; the second
// result carries the reason for logging and is nil for a valid token or an
// absent header.
func (r *Resolver) Resolve(header string) (AuthContext, error) {
	if header == "" {
		return Anonymous, nil
	}
	token, ok := bearerToken(header)
	if !ok {
		return Anonymous, common.ErrInvalidToken
	}
	id, err := r.tokens.Validate(token)
	if err != nil {
		return Anonymous, err
	}
	return Authenticated(id.UserID, id.Email), nil
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) ||
		!strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}
