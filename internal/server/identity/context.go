// Package identity turns the Authorization header of an incoming request into
// an AuthContext. Resolution never fails: anything that is not a valid bearer
// token yields an anonymous context, and the configured Policy decides whether
// the request may continue.
package identity

import "context"

// AuthContext is the per-request identity. The zero value is anonymous.
type AuthContext struct {
	UserID string
	Email  string
}

// Anonymous is the identity of a request without a valid token.
var Anonymous = AuthContext{}

// Authenticated builds the identity proven by a valid token.
func Authenticated(userID, email string) AuthContext {
	return AuthContext{UserID: userID, Email: email}
}

func (a AuthContext) IsAuthenticated() bool {
	return a.UserID != ""
}

type contextKey struct{}

// WithAuthContext stores ac in ctx.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the AuthContext stored in ctx, or Anonymous.
func FromContext(ctx context.Context) AuthContext {
	ac, _ := ctx.Value(contextKey{}).(AuthContext)
	return ac
}
