package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/access"
	"github.com/dmitrijs2005/gophfeed/internal/server/blobstore"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// Upload is an image file received from a client. Callers filter the
// content type with blobstore.AcceptedImageType before building one.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

var timeNow = time.Now

// StoreImage puts up into object storage under a fresh key in ownerID's
// namespace.
func (s *PostService) StoreImage(ctx context.Context, ownerID string, up Upload) (models.ImageRef, error) {
	key, err := blobstore.NewKey(timeNow(), ownerID, up.Filename)
	if err != nil {
		return models.ImageRef{}, err
	}
	url, err := s.blobs.Put(ctx, key, up.ContentType, up.Body, up.Size)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("error storing image: %w", err)
	}
	s.logger.Debug(ctx, "image stored", "key", key)
	return models.ImageRef{URL: url, Key: key}, nil
}

// UploadImage stores up for an authenticated caller ahead of a create or
// update call that references it. Nothing is deleted here: the image a post
// used before is cleaned up by Update once the post points elsewhere. A nil
// up stores nothing and reports false.
func (s *PostService) UploadImage(ctx context.Context, ac identity.AuthContext, up *Upload) (models.ImageRef, bool, error) {
	userID, err := access.RequireAuthenticated(ac)
	if err != nil {
		return models.ImageRef{}, false, err
	}
	if up == nil {
		return models.ImageRef{}, false, nil
	}

	ref, err := s.StoreImage(ctx, userID, *up)
	if err != nil {
		return models.ImageRef{}, false, err
	}
	return ref, true, nil
}

// checkImageRef vets an image reference sent by the client instead of a
// file. The key is required and must be the caller's own object or the one
// the post already uses (current may be empty).
func checkImageRef(userID string, ref models.ImageRef, current models.ImageRef) error {
	if ref.Key == "" {
		verr := common.NewValidationError(ValidationMessage)
		verr.Add("imageKey", "Image key is required.")
		return verr
	}
	if current.Key != "" && ref.Key == current.Key {
		return nil
	}
	if !blobstore.OwnedBy(ref.Key, userID) {
		return fmt.Errorf("image key %q: %w", ref.Key, common.ErrForbidden)
	}
	return nil
}
