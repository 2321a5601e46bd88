package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/gophfeed/internal/server/blobstore"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

var errBadBody = errors.New("invalid request body")

// form is a request body read from either JSON or multipart/form-data.
type form struct {
	values map[string]string
	upload *services.Upload
	file   multipart.File
}

func (f *form) get(name string) string {
	return f.values[name]
}

// Close releases the uploaded file, if any.
func (f *form) Close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// readForm parses the body. A multipart "image" file is kept only when its
// content type is an accepted image type; other files are silently ignored.
func readForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	f := &form{values: map[string]string{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, errBadBody
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return nil, errBadBody
		case !blobstore.AcceptedImageType(header.Header.Get("Content-Type")):
			_ = file.Close()
		default:
			f.file = file
			f.upload = &services.Upload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
				Size:        header.Size,
			}
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, errBadBody
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
	default:
		raw := map[string]any{}
		err := json.NewDecoder(r.Body).Decode(&raw)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errBadBody
		}
		for k, v := range raw {
			if s, ok := v.(string); ok {
				f.values[k] = s
			}
		}
	}
	return f, nil
}
