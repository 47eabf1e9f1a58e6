package models

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListFilter narrows list queries. Zero values mean "no constraint".
type ListFilter struct {
	Search   string
	Status   string
	Category string
	Page     int
	PageSize int
}

// Normalize clamps paging to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return f
}

// Skip returns the number of records preceding the requested page.
func (f ListFilter) Skip() int {
	return (f.Page - 1) * f.PageSize
}

// Page is one slice of a list result.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
