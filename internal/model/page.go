package model

const (
	// DefaultPage is used when the caller does not request a page.
	DefaultPage = 1
	// DefaultPageSize is used when the caller does not request a page size.
	DefaultPageSize = 10
)

// PageRequest selects a page window over an ordered collection.
// An empty Search means no filtering.
type PageRequest struct {
	Page     int
	PageSize int
	Search   string
}

// NewPageRequest returns a request with the default window.
func NewPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Offset returns the number of rows skipped before the window.
// Callers must validate the request first.
func (p PageRequest) Offset() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Filtered reports whether a search term was supplied.
func (p PageRequest) Filtered() bool {
	return p.Search != ""
}

// Page is one window of a filtered, ordered result set.
// TotalCount is the size of the whole filtered set, not of Data.
type Page[T any] struct {
	TotalCount int64 `json:"total_count"`
	Data       []T   `json:"data"`
}

// MapPage converts the items of a page while keeping its count.
func MapPage[S, T any](p Page[S], fn func(S) T) Page[T] {
	out := Page[T]{
		TotalCount: p.TotalCount,
		Data:       make([]T, 0, len(p.Data)),
	}
	for _, item := range p.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
