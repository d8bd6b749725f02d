// Package pagination slices ordered listings into fixed-size pages. It is a
// pure computation over counts and page numbers, independent of any storage
// or HTTP layer.
package pagination

const DefaultPageSize = 10

// Page describes one bounded slice of an ordered listing. Page numbers are
// 1-based; a number past the last page yields an empty slice, not an error.
type Page struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	PageCount  int `json:"page_count"`
}

// Paginate clamps number and size to sane values and computes the page
// metadata for a listing of totalItems elements.
func Paginate(totalItems, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	pageCount := (totalItems + size - 1) / size
	// An empty listing still has one (empty) page.
	if pageCount < 1 {
		pageCount = 1
	}
	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		PageCount:  pageCount,
	}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of items on the page.
func (p Page) Limit() int {
	return p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.PageCount
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}

func (p Page) PrevNumber() int {
	return p.Number - 1
}
