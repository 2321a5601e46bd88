// Package models defines the server-side data models shared by the
// repositories, services and API surfaces.
package models

import "time"

// User is an account that owns posts. Password holds the bcrypt hash and is
// never serialized to clients.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Status    string    `json:"status"`
	Posts     []string  `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPost reports whether postID is in the user's post set.
func (u *User) HasPost(postID string) bool {
	for _, id := range u.Posts {
		if id == postID {
			return true
		}
	}
	return false
}

// AddPost appends postID to the post set unless it is already present.
func (u *User) AddPost(postID string) {
	if !u.HasPost(postID) {
		u.Posts = append(u.Posts, postID)
	}
}

// RemovePost drops postID from the post set, reporting whether it was there.
func (u *User) RemovePost(postID string) bool {
	for i, id := range u.Posts {
		if id == postID {
			u.Posts = append(u.Posts[:i:i], u.Posts[i+1:]...)
			return true
		}
	}
	return false
}

// Creator is the public projection of a post's owner.
type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
