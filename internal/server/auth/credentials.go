package auth

// Credentials bundles hashing and token handling behind one value so the
// services depend on a single collaborator.
type Credentials struct {
	*Hasher
	*TokenIssuer
}

func NewCredentials(h *Hasher, t *TokenIssuer) *Credentials {
	return &Credentials{Hasher: h, TokenIssuer: t}
}
