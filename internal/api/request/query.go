package request

import (
	"net/http"
	"strconv"
)

// Default paging applied when the query string leaves page or size out.
const (
	DefaultPage = 0
	DefaultSize = 20
)

// ListParams carries the parsed query parameters of a listing request.
type ListParams struct {
	Category  string
	Tag       string
	Search    string
	Completed *bool
	Archived  *bool
	Page      int
	Size      int
	Sort      string
}

// ParseListParams extracts filter, sort and paging parameters from the
// query string. Malformed values are reported instead of silently dropped.
func ParseListParams(r *http.Request) (ListParams, []string) {
	var errors []string

	q := r.URL.Query()
	params := ListParams{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		Page:     DefaultPage,
		Size:     DefaultSize,
		Sort:     q.Get("sort"),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			errors = append(errors, "page must be an integer")
		} else {
			params.Page = page
		}
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			errors = append(errors, "size must be an integer")
		} else {
			params.Size = size
		}
	}

	if raw := q.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			errors = append(errors, "completed must be a boolean")
		} else {
			params.Completed = &completed
		}
	}

	if raw := q.Get("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			errors = append(errors, "archived must be a boolean")
		} else {
			params.Archived = &archived
		}
	}

	return params, errors
}
