package identity

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

// Policy decides what happens to a request whose identity is anonymous.
type Policy int

const (
	// PolicyLenient lets every request through; handlers consult the
	// AuthContext themselves.
	PolicyLenient Policy = iota
	// PolicyStrict rejects anonymous requests with 401.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyLenient:
		return "lenient"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "lenient" or "strict".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return 0, fmt.Errorf("unknown auth policy %q", s)
	}
}

// Middleware resolves the identity of each request and applies policy.
func (r *Resolver) Middleware(policy Policy, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ac, err := r.Resolve(req.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				logger.Debug(req.Context(), "bearer token rejected", "path", req.URL.Path, "error", err)
			}
			if policy == PolicyStrict && !ac.IsAuthenticated() {
				writeUnauthenticated(w)
				return
			}
			next.ServeHTTP(w, req.WithContext(WithAuthContext(req.Context(), ac)))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Not authenticated.",
		"status":  http.StatusUnauthorized,
	})
}
