// Package access holds the ownership rules for posts: everyone may read,
// only the creator may change or remove.
package access

import (
	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
)

// CanRead is true for every caller, anonymous included.
func CanRead(identity.AuthContext) bool {
	return true
}

// CanMutate is true iff ac is authenticated as ownerID.
func CanMutate(ac identity.AuthContext, ownerID string) bool {
	return ac.IsAuthenticated() && ac.UserID == ownerID
}

// RequireAuthenticated returns the caller's user id or
// common.ErrUnauthenticated.
func RequireAuthenticated(ac identity.AuthContext) (string, error) {
	if !ac.IsAuthenticated() {
		return "", common.ErrUnauthenticated
	}
	return ac.UserID, nil
}

// RequireOwner distinguishes an anonymous caller (ErrUnauthenticated) from an
// authenticated non-owner (ErrForbidden).
func RequireOwner(ac identity.AuthContext, ownerID string) error {
	if !ac.IsAuthenticated() {
		return common.ErrUnauthenticated
	}
	if ac.UserID != ownerID {
		return common.ErrForbidden
	}
	return nil
}
