package service

import (
	"fmt"
	"strings"

	"github.com/todohub/todohub/internal/domain"
)

// Pagination limits for todo searches.
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// DefaultSort is applied when a caller does not specify a sort parameter.
const DefaultSort = "createdAt,desc"

// allowedSortFields is the allow-list of sortable todo fields.
var allowedSortFields = map[string]struct{}{
	"createdAt": {},
	"updatedAt": {},
	"dueDate":   {},
	"priority":  {},
	"title":     {},
	"completed": {},
}

// PageableFactory validates and builds pagination and sort parameters
// against the sort field allow-list.
type PageableFactory struct{}

// NewPageableFactory creates a new PageableFactory.
func NewPageableFactory() *PageableFactory {
	return &PageableFactory{}
}

// BuildPageable validates the zero-based page, the page size and the sort
// parameter ("field" or "field,dir").
func (f *PageableFactory) BuildPageable(page, size int, sort string) (domain.Pageable, error) {
	if page < 0 {
		return domain.Pageable{}, domain.NewValidationError([]string{"Page must be greater than or equal to 0"})
	}
	if size < MinPageSize || size > MaxPageSize {
		return domain.Pageable{}, domain.NewValidationError([]string{"Size must be between 1 and 100"})
	}

	parsed, err := f.BuildSort(sort)
	if err != nil {
		return domain.Pageable{}, err
	}

	return domain.Pageable{Page: page, Size: size, Sort: parsed}, nil
}

// BuildSort parses and validates a sort parameter. An empty parameter maps
// to DefaultSort.
func (f *PageableFactory) BuildSort(sort string) (domain.Sort, error) {
	if strings.TrimSpace(sort) == "" {
		sort = DefaultSort
	}

	parts := strings.Split(sort, ",")
	field := strings.TrimSpace(parts[0])
	direction := "asc"
	if len(parts) > 1 {
		direction = strings.TrimSpace(parts[1])
	}

	if _, ok := allowedSortFields[field]; !ok {
		return domain.Sort{}, domain.NewValidationError([]string{fmt.Sprintf("Unsupported sort field: %s", field)})
	}

	return domain.Sort{Field: field, Desc: strings.EqualFold(direction, "desc")}, nil
}
