// Package blobstore keeps post images in S3-compatible object storage.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/gophfeed/internal/common"
)

// Store puts and removes image objects. Put returns the URL clients use to
// display the object.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

var acceptedTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// AcceptedImageType reports whether an upload with this content type is kept.
// Everything else is dropped without an error.
func AcceptedImageType(contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	return acceptedTypes[strings.ToLower(strings.TrimSpace(ct))]
}

const maxNameLen = 100

// NewKey builds a unique object key for an upload named filename and owned
// by ownerID: images/<ownerID>/yyyy/mm/dd/<RFC3339 time>_<random hex>_<name>.
func NewKey(now time.Time, ownerID, filename string) (string, error) {
	if ownerID == "" || strings.ContainsAny(ownerID, "/\\") {
		return "", fmt.Errorf("invalid key owner %q", ownerID)
	}
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", fmt.Errorf("error generating key: %w", err)
	}
	now = now.UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s_%s_%s", ownerPrefix(ownerID),
		now.Year(), now.Month(), now.Day(), now.Format(time.RFC3339), suffix, sanitizeName(filename)), nil
}

func ownerPrefix(ownerID string) string {
	return "images/" + ownerID + "/"
}

// OwnedBy reports whether key lies in ownerID's namespace. Keys that are not
// in canonical form never match.
func OwnedBy(key, ownerID string) bool {
	if ownerID == "" || path.Clean(key) != key {
		return false
	}
	prefix := ownerPrefix(ownerID)
	return strings.HasPrefix(key, prefix) && len(key) > len(prefix)
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), ".-")
	if s == "" {
		s = "image"
	}
	if len(s) > maxNameLen {
		s = s[len(s)-maxNameLen:]
	}
	return s
}
