// Package services contains the server-side business logic shared by the
// REST and GraphQL surfaces: accounts and the post lifecycle.
package services

import (
	"github.com/dmitrijs2005/gophfeed/internal/server/notify"
)

// ValidationMessage heads every input validation failure.
const ValidationMessage = "Validation failed. Entered data is incorrect."

// Credentials is the part of the credential service accounts need.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, credential string) bool
	Issue(userID, email string) (string, error)
}

// Publisher pushes post changes to realtime observers.
type Publisher interface {
	Publish(action notify.Action, post any) error
}
