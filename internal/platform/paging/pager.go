// Package paging provides a read-only page descriptor over an ordered slice
// of results.
package paging

// Page is a bounded view over an ordered result set plus paging metadata.
// It performs no validation of CurrentPage against TotalPages; callers must
// validate the page number before constructing one.
type Page[T any] struct {
	totalCount  int
	pageSize    int
	currentPage int
	items       []T
}

// NewPage builds an immutable page. The items slice is copied so later
// mutation of the argument cannot leak into the page.
func NewPage[T any](totalCount, pageSize, currentPage int, items []T) Page[T] {
	copied := make([]T, len(items))
	copy(copied, items)

	return Page[T]{
		totalCount:  totalCount,
		pageSize:    pageSize,
		currentPage: currentPage,
		items:       copied,
	}
}

func (p Page[T]) TotalCount() int  { return p.totalCount }
func (p Page[T]) PageSize() int    { return p.pageSize }
func (p Page[T]) CurrentPage() int { return p.currentPage }

// Items returns a copy of the page contents.
func (p Page[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// TotalPages is ceil(totalCount / pageSize), zero for an empty result set.
func (p Page[T]) TotalPages() int {
	if p.totalCount <= 0 || p.pageSize <= 0 {
		return 0
	}

	return (p.totalCount + p.pageSize - 1) / p.pageSize
}

func (p Page[T]) HasPreviousPage() bool {
	return p.currentPage > 1
}

func (p Page[T]) HasNextPage() bool {
	return p.currentPage < p.TotalPages()
}
