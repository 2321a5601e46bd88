package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/identity"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/pagination"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const postNotFoundMessage = "Could not find post."

type feedHandlers struct {
	posts    PostService
	logger   logging.Logger
	notFound int
	maxBytes int64
}

func (h *feedHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, h.logger, err, h.notFound, postNotFoundMessage)
}

// postInput reads title, content and the image from a form. The "image" text
// field names an image that is already stored.
func postInput(f *form) services.PostInput {
	return services.PostInput{
		Title:   f.get("title"),
		Content: f.get("content"),
		Image:   models.ImageRef{URL: f.get("image"), Key: f.get("imageKey")},
		Upload:  f.upload,
	}
}

// list handles GET /feed/posts?page=N.
func (h *feedHandlers) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.List(r.Context(), pagination.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Fetched posts successfully.",
		"posts":      page.Posts,
		"totalItems": page.TotalItems,
	})
}

// create handles POST /feed/post.
func (h *feedHandlers) create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	post, err := h.posts.Create(r.Context(), identity.FromContext(r.Context()), postInput(f))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully!",
		"post":    post,
		"creator": post.Creator,
	})
}

func (h *feedHandlers) get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post fetched.", "post": post})
}

func (h *feedHandlers) update(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	post, err := h.posts.Update(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "postId"), postInput(f))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post updated!", "post": post})
}

func (h *feedHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "postId")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted post."})
}

// uploadImage handles PUT /post-image, used by clients that upload the image
// ahead of the create or update call. It only stores; the image being
// replaced is removed by the update that stops referencing it.
func (h *feedHandlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxBytes)
	if err != nil {
		writeBadBody(w)
		return
	}
	defer f.Close()

	ref, stored, err := h.posts.UploadImage(r.Context(), identity.FromContext(r.Context()), f.upload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !stored {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No file provided!"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "File stored.",
		"filePath": ref.URL,
		"fileKey":  ref.Key,
	})
}
