// Package pagination splits ordered result sets into numbered pages.
package pagination

import "strconv"

// DefaultPerPage is used when a Paginator is built with a non-positive page size.
const DefaultPerPage = 10

// Paginator computes page boundaries for Count items split into pages of PerPage.
type Paginator struct {
	Count   int64
	PerPage int
}

// New returns a paginator over count items.
func New(count int64, perPage int) Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is the number of pages. An empty result still has one page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	per := int64(p.PerPage)
	return int((p.Count + per - 1) / per)
}

// Number resolves a raw page query value. Anything that is not a positive
// integer yields 1 and numbers past the end yield the last page.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

// Window is the slice of the result set a page covers.
type Window struct {
	Number int
	Offset int
	Limit  int
}

// GetPage returns the window for a raw page query value.
func (p Paginator) GetPage(raw string) Window {
	n := p.Number(raw)
	return Window{
		Number: n,
		Offset: (n - 1) * p.PerPage,
		Limit:  p.PerPage,
	}
}

// Page is one page of objects together with its navigation data.
type Page[T any] struct {
	Objects            []T   `json:"objects"`
	Number             int   `json:"number"`
	NumPages           int   `json:"num_pages"`
	Count              int64 `json:"count"`
	PerPage            int   `json:"per_page"`
	HasNext            bool  `json:"has_next"`
	HasPrevious        bool  `json:"has_previous"`
	NextPageNumber     int   `json:"next_page_number"`
	PreviousPageNumber int   `json:"previous_page_number"`
	PageRange          []int `json:"page_range"`
}

// NewPage builds a page for window w holding objects.
func NewPage[T any](p Paginator, w Window, objects []T) Page[T] {
	if objects == nil {
		objects = []T{}
	}
	last := p.NumPages()
	page := Page[T]{
		Objects:     objects,
		Number:      w.Number,
		NumPages:    last,
		Count:       p.Count,
		PerPage:     p.PerPage,
		HasNext:     w.Number < last,
		HasPrevious: w.Number > 1,
		PageRange:   make([]int, 0, last),
	}
	if page.HasNext {
		page.NextPageNumber = w.Number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = w.Number - 1
	}
	for i := 1; i <= last; i++ {
		page.PageRange = append(page.PageRange, i)
	}
	return page
}

// Len is the number of objects on the page.
func (p Page[T]) Len() int {
	return len(p.Objects)
}

// StartIndex is the 1-based index of the first object, 0 for an empty page.
func (p Page[T]) StartIndex() int64 {
	if p.Count == 0 {
		return 0
	}
	return int64(p.PerPage)*int64(p.Number-1) + 1
}

// EndIndex is the 1-based index of the last object on the page.
func (p Page[T]) EndIndex() int64 {
	if p.Count == 0 {
		return 0
	}
	return p.StartIndex() + int64(len(p.Objects)) - 1
}
