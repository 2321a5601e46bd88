package models

import "time"

// ImageRef locates a post image: URL is what clients display, Key addresses
// the blob in object storage.
type ImageRef struct {
	URL string
	Key string
}

// Post is a titled, image-attached entry owned by exactly one user.
// CreatorID never changes after creation.
type Post struct {
	ID        string
	Title     string
	Content   string
	Image     ImageRef
	CreatorID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch sets UpdatedAt to now, never moving it backwards.
func (p *Post) Touch(now time.Time) {
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}

// PostView is the client-facing shape of a post, shared by the REST
// responses, GraphQL and realtime messages.
type PostView struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	ImageKey  string    `json:"imageKey"`
	Creator   Creator   `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPostView joins p with its creator.
func NewPostView(p *Post, creator Creator) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.Image.URL,
		ImageKey:  p.Image.Key,
		Creator:   creator,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FeedPage is one page of the feed together with the total number of posts.
type FeedPage struct {
	Posts      []PostView `json:"posts"`
	TotalItems int64      `json:"totalItems"`
}
