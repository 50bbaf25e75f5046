package ledger

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	PageParam       = "page"
	PageSizeParam   = "per_page"
)

// PageSizes are the page sizes a caller may request.
var PageSizes = []int{10, 25, 50, 100}

// PageMeta describes where a page sits in the full sequence.
type PageMeta struct {
	Number      int  `json:"page"`
	Size        int  `json:"per_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// Page is one slice of a paginated sequence.
type Page[T any] struct {
	Items []T
	PageMeta
}

// PreviousNumber returns the previous page number, or 0 when there is none.
func (m PageMeta) PreviousNumber() int {
	if !m.HasPrevious {
		return 0
	}
	return m.Number - 1
}

// NextNumber returns the next page number, or 0 when there is none.
func (m PageMeta) NextNumber() int {
	if !m.HasNext {
		return 0
	}
	return m.Number + 1
}

// ClampPageSize returns size when it is an allowed page size and
// DefaultPageSize otherwise.
func ClampPageSize(size int) int {
	for _, allowed := range PageSizes {
		if size == allowed {
			return size
		}
	}
	return DefaultPageSize
}

// ParsePageSize parses a raw per_page value, falling back to the default.
func ParsePageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	return ClampPageSize(n)
}

// ParsePage parses a raw page number. Missing, non-integer and values below
// one all become 1; the upper bound is applied by Paginate, so positive
// numbers too large for an int become math.MaxInt.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate slices items into the requested page. Out of range page numbers
// are clamped to the first or last page and unknown sizes fall back to
// DefaultPageSize. An empty sequence has a single empty page.
func Paginate[T any](items []T, page, size int) Page[T] {
	size = ClampPageSize(size)
	total := len(items)

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items: items[start:end:end],
		PageMeta: PageMeta{
			Number:      page,
			Size:        size,
			TotalPages:  pages,
			TotalItems:  total,
			HasPrevious: page > 1,
			HasNext:     page < pages,
		},
	}
}

// QueryWithoutPage encodes params with only the page parameter removed, so
// that page links keep every active filter. The result has no leading "?".
func QueryWithoutPage(params url.Values) string {
	kept := url.Values{}
	for k, v := range params {
		if k == PageParam {
			continue
		}
		kept[k] = append([]string(nil), v...)
	}
	return kept.Encode()
}

// PageQuery builds the query string for page n from an existing base query
// produced by QueryWithoutPage.
func PageQuery(base string, n int) string {
	if base == "" {
		return PageParam + "=" + strconv.Itoa(n)
	}
	return base + "&" + PageParam + "=" + strconv.Itoa(n)
}
