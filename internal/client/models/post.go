// Package models holds the client-side view of server resources.
package models

import "time"

type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	ImageKey  string    `json:"imageKey"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeedPage is one page of the feed.
type FeedPage struct {
	Posts      []Post `json:"posts"`
	TotalItems int64  `json:"totalItems"`
}

// PostDraft is what the user types when creating or editing a post. ImagePath
// is a local file to upload; ImageURL keeps an image already on the server.
type PostDraft struct {
	Title     string
	Content   string
	ImagePath string
	ImageURL  string
}

// Event is a change pushed over the posts socket. For deletes Post carries
// only the id.
type Event struct {
	Channel string `json:"channel"`
	Action  string `json:"action"`
	Post    Post   `json:"-"`
}
