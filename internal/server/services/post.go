package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/access"
	"github.com/dmitrijs2005/gophfeed/internal/server/blobstore"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/notify"
	"github.com/dmitrijs2005/gophfeed/internal/server/pagination"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/repomanager"
)

// PostInput is the user-editable part of a post. The image is either a new
// Upload or an Image already in object storage; for updates Image may repeat
// the stored URL to keep it. Upload wins when both are set.
type PostInput struct {
	Title   string
	Content string
	Image   models.ImageRef
	Upload  *Upload
}

const (
	DefaultPostsPerPage      = 2
	DefaultBlobDeleteTimeout = 30 * time.Second
)

// PostService runs the post lifecycle: validation, ownership checks, the
// owner's post set, image cleanup and change notifications.
type PostService struct {
	repos     repomanager.RepositoryManager
	blobs     blobstore.Store
	publisher Publisher
	logger    logging.Logger

	perPage           int
	blobDeleteTimeout time.Duration

	// pending tracks detached blob deletions.
	pending sync.WaitGroup
}

type PostOption func(*PostService)

func WithPostsPerPage(n int) PostOption {
	return func(s *PostService) {
		if n > 0 {
			s.perPage = n
		}
	}
}

func WithBlobDeleteTimeout(d time.Duration) PostOption {
	return func(s *PostService) {
		if d > 0 {
			s.blobDeleteTimeout = d
		}
	}
}

func NewPostService(repos repomanager.RepositoryManager, blobs blobstore.Store, publisher Publisher,
	logger logging.Logger, opts ...PostOption) *PostService {
	s := &PostService{
		repos:             repos,
		blobs:             blobs,
		publisher:         publisher,
		logger:            logger,
		perPage:           DefaultPostsPerPage,
		blobDeleteTimeout: DefaultBlobDeleteTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validatePost(in PostInput) error {
	verr := common.NewValidationError(ValidationMessage)
	if common.TrimmedLen(in.Title) < common.MinTextLength {
		verr.Add("title", "Title must be at least 5 characters long.")
	}
	if common.TrimmedLen(in.Content) < common.MinTextLength {
		verr.Add("content", "Content must be at least 5 characters long.")
	}
	if in.Upload == nil && in.Image.URL == "" {
		verr.Add("image", "No image provided.")
	}
	return verr.OrNil()
}

// Create stores a new post owned by the caller and adds it to the caller's
// post set. Both writes share one atomic section; on backends without
// transactions a failed owner update leaves the post behind as an orphan.
func (s *PostService) Create(ctx context.Context, ac identity.AuthContext, in PostInput) (*models.PostView, error) {
	userID, err := access.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if err := validatePost(in); err != nil {
		return nil, err
	}
	if in.Upload == nil {
		if err := checkImageRef(userID, in.Image, models.ImageRef{}); err != nil {
			return nil, err
		}
	}
	image, uploaded, err := s.resolveImage(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	var owner *models.User
	err = s.repos.Atomically(ctx, func(ctx context.Context, r repomanager.Repos) error {
		var err error
		owner, err = r.Users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("error loading owner: %w", err)
		}
		post, err = r.Posts.Create(ctx, &models.Post{
			Title:     strings.TrimSpace(in.Title),
			Content:   strings.TrimSpace(in.Content),
			Image:     image,
			CreatorID: owner.ID,
		})
		if err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}
		if err := r.Users.AddPost(ctx, owner.ID, post.ID); err != nil {
			s.logger.Error(ctx, "owner post set not updated", "post_id", post.ID, "user_id", owner.ID, "error", err)
			return fmt.Errorf("error updating owner: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardUpload(uploaded, image.Key)
		return nil, err
	}

	view := models.NewPostView(post, models.Creator{ID: owner.ID, Name: owner.Name})
	s.publish(ctx, notify.ActionCreate, view)
	return &view, nil
}

// Update replaces title, content and image of a post owned by the caller.
// Input is validated before the post is looked up. When the image changes
// the old object is scheduled for deletion before the post is saved; the
// new one is never touched.
func (s *PostService) Update(ctx context.Context, ac identity.AuthContext, postID string, in PostInput) (*models.PostView, error) {
	userID, err := access.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if err := validatePost(in); err != nil {
		return nil, err
	}

	posts := s.repos.Repos().Posts
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	if err := access.RequireOwner(ac, post.CreatorID); err != nil {
		return nil, err
	}
	if in.Upload == nil && (in.Image.URL != post.Image.URL || in.Image.Key != "") {
		if err := checkImageRef(userID, in.Image, post.Image); err != nil {
			return nil, err
		}
	}

	image, uploaded, err := s.resolveImage(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if imageChanged(post.Image, image) {
		if post.Image.Key != "" && post.Image.Key != image.Key {
			s.deleteBlob(post.Image.Key)
		}
		post.Image = image
	}
	post.Title = strings.TrimSpace(in.Title)
	post.Content = strings.TrimSpace(in.Content)

	if err := posts.Update(ctx, post); err != nil {
		s.discardUpload(uploaded, image.Key)
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	view := models.NewPostView(post, s.creator(ctx, post.CreatorID))
	s.publish(ctx, notify.ActionUpdate, view)
	return &view, nil
}

func imageChanged(stored, next models.ImageRef) bool {
	if next.Key != "" {
		return next.Key != stored.Key || next.URL != stored.URL
	}
	return next.URL != stored.URL
}

// Delete removes a post owned by the caller, drops it from the owner's post
// set. Its image is deleted in the background independently of the row.
func (s *PostService) Delete(ctx context.Context, ac identity.AuthContext, postID string) error {
	if _, err := access.RequireAuthenticated(ac); err != nil {
		return err
	}

	post, err := s.repos.Repos().Posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("error loading post: %w", err)
	}
	if err := access.RequireOwner(ac, post.CreatorID); err != nil {
		return err
	}

	if post.Image.Key != "" {
		s.deleteBlob(post.Image.Key)
	}

	err = s.repos.Atomically(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if err := r.Posts.Delete(ctx, post.ID); err != nil {
			return fmt.Errorf("error deleting post: %w", err)
		}
		if err := r.Users.RemovePost(ctx, post.CreatorID, post.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error updating owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, notify.ActionDelete, post.ID)
	return nil
}

// Get returns any post; reads are public.
func (s *PostService) Get(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := s.repos.Repos().Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	view := models.NewPostView(post, s.creator(ctx, post.CreatorID))
	return &view, nil
}

// List returns page (1-based) of the feed, newest first.
func (s *PostService) List(ctx context.Context, page int) (*models.FeedPage, error) {
	posts := s.repos.Repos().Posts

	total, err := posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}
	w := pagination.Paginate(total, page, s.perPage)

	items, err := posts.List(ctx, w.Offset, w.Limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	creators := make(map[string]models.Creator)
	result := &models.FeedPage{Posts: make([]models.PostView, 0, len(items)), TotalItems: total}
	for _, p := range items {
		c, ok := creators[p.CreatorID]
		if !ok {
			c = s.creator(ctx, p.CreatorID)
			creators[p.CreatorID] = c
		}
		result.Posts = append(result.Posts, models.NewPostView(p, c))
	}
	return result, nil
}

// PerPage is the fixed feed page size.
func (s *PostService) PerPage() int {
	return s.perPage
}

func (s *PostService) creator(ctx context.Context, userID string) models.Creator {
	c := models.Creator{ID: userID}
	u, err := s.repos.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "post creator not found", "user_id", userID, "error", err)
		return c
	}
	c.Name = u.Name
	return c
}

// publish reports a committed change. Delivery problems are logged; a
// notifier that was never installed is a startup bug and panics.
func (s *PostService) publish(ctx context.Context, action notify.Action, payload any) {
	err := s.publisher.Publish(action, payload)
	if errors.Is(err, common.ErrNotInitialized) {
		panic(fmt.Errorf("change notifier: %w", err))
	}
	if err != nil {
		s.logger.Error(ctx, "publish failed", "action", string(action), "error", err)
	}
}

// resolveImage returns the image the post should use. A ref that only
// repeats the stored URL has already been accepted by the caller.
func (s *PostService) resolveImage(ctx context.Context, userID string, in PostInput) (models.ImageRef, bool, error) {
	if in.Upload == nil {
		return in.Image, false, nil
	}
	ref, err := s.StoreImage(ctx, userID, *in.Upload)
	if err != nil {
		return models.ImageRef{}, false, err
	}
	return ref, true, nil
}

func (s *PostService) discardUpload(uploaded bool, key string) {
	if uploaded && key != "" {
		s.deleteBlob(key)
	}
}

// deleteBlob runs detached from the request so the response never waits on
// object storage. Failures are only logged.
func (s *PostService) deleteBlob(key string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.blobDeleteTimeout)
		defer cancel()
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "image delete failed", "key", key, "error", err)
			return
		}
		s.logger.Debug(ctx, "image deleted", "key", key)
	}()
}

// Wait blocks until every background image deletion has finished.
func (s *PostService) Wait() {
	s.pending.Wait()
}
