package ledger

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginatePageCounts(t *testing.T) {
	for _, size := range PageSizes {
		for _, n := range []int{1, size - 1, size, size + 1, 3*size + 7} {
			t.Run(fmt.Sprintf("size_%d_n_%d", size, n), func(t *testing.T) {
				items := seq(n)
				first := Paginate(items, 1, size)
				wantPages := (n + size - 1) / size
				require.Equal(t, wantPages, first.TotalPages)
				assert.Equal(t, n, first.TotalItems)

				seen := 0
				for p := 1; p <= wantPages; p++ {
					page := Paginate(items, p, size)
					if p < wantPages {
						assert.Len(t, page.Items, size)
					} else {
						assert.NotEmpty(t, page.Items)
					}
					seen += len(page.Items)
				}
				assert.Equal(t, n, seen)
			})
		}
	}
}

func TestPaginateClamps(t *testing.T) {
	items := seq(23)

	low := Paginate(items, 0, 10)
	assert.Equal(t, 1, low.Number)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, low.Items)
	assert.False(t, low.HasPrevious)
	assert.True(t, low.HasNext)

	high := Paginate(items, 999999, 10)
	assert.Equal(t, 3, high.Number)
	assert.Equal(t, []int{21, 22, 23}, high.Items)
	assert.True(t, high.HasPrevious)
	assert.False(t, high.HasNext)
	assert.Equal(t, 2, high.PreviousNumber())
	assert.Equal(t, 0, high.NextNumber())

	odd := Paginate(items, 1, 7)
	assert.Equal(t, DefaultPageSize, odd.Size)
	assert.Len(t, odd.Items, 10)
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]int(nil), 5, 25)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.TotalItems)
	assert.False(t, page.HasNext)
}

func TestParsePageAndSize(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 1, ParsePage("2.5"))
	assert.Equal(t, 4, ParsePage("4"))
	assert.Equal(t, 1, ParsePage("-99999999999999999999"))

	huge := ParsePage("99999999999999999999")
	p := Paginate(make([]int, 25), huge, 10)
	assert.Equal(t, 3, p.Number)
	assert.Len(t, p.Items, 5)
	assert.False(t, p.HasNext)

	assert.Equal(t, 10, ParsePageSize(""))
	assert.Equal(t, 25, ParsePageSize("25"))
	assert.Equal(t, 100, ParsePageSize("100"))
	assert.Equal(t, 10, ParsePageSize("1000"))
	assert.Equal(t, 10, ParsePageSize("many"))
}

func TestQueryWithoutPage(t *testing.T) {
	params, err := url.ParseQuery("search=cement&page=3&order_type=IN&per_page=25&date_from=2024-01-01")
	require.NoError(t, err)

	base := QueryWithoutPage(params)

	parsed, err := url.ParseQuery(base)
	require.NoError(t, err)
	assert.Empty(t, parsed.Get("page"))
	assert.Equal(t, "cement", parsed.Get("search"))
	assert.Equal(t, "IN", parsed.Get("order_type"))
	assert.Equal(t, "25", parsed.Get("per_page"))
	assert.Equal(t, "2024-01-01", parsed.Get("date_from"))
	assert.Equal(t, "3", params.Get("page"), "input must not be modified")

	assert.Equal(t, base+"&page=4", PageQuery(base, 4))
	assert.Equal(t, "page=2", PageQuery(QueryWithoutPage(url.Values{"page": {"9"}}), 2))
}
