// Package pagination converts a 1-based page number into an offset window.
package pagination

import "strconv"

// Window is the slice of a result set a page covers.
type Window struct {
	Offset int
	Limit  int
}

// Paginate returns the window for page. total does not clamp the result: a
// page past the end simply yields an empty slice from the store.
func Paginate(total int64, page, perPage int) Window {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Window{Offset: (page - 1) * perPage, Limit: perPage}
}

// ParsePage reads a page query value; anything absent, unparsable or below 1
// becomes page 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
