package http

import (
	"net/url"
	"testing"

	"daftar/internal/core"
	"daftar/internal/ledger"
)

func TestParseOrderFilter(t *testing.T) {
	tests := []struct {
		name       string
		query      url.Values
		wantFields []string
		check      func(t *testing.T, f ledger.Filter)
	}{
		{
			name:  "empty query is no filter",
			query: url.Values{},
			check: func(t *testing.T, f ledger.Filter) {
				if f.Search != "" || f.Type != core.Unset || f.PriceMin != nil || f.PriceMax != nil || f.SortBy != "" {
					t.Errorf("expected zero filter, got %+v", f)
				}
			},
		},
		{
			name: "all parameters",
			query: url.Values{
				"search":     {"  widget "},
				"order_type": {"out"},
				"date_from":  {"2024-01-01"},
				"date_to":    {"2024-01-31"},
				"price_min":  {"0"},
				"price_max":  {"5000"},
				"sort_by":    {"-price"},
			},
			check: func(t *testing.T, f ledger.Filter) {
				if f.Search != "widget" {
					t.Errorf("Search = %q", f.Search)
				}
				if f.Type != core.Outgoing {
					t.Errorf("Type = %q", f.Type)
				}
				if f.DateFrom.String() != "2024-01-01" || f.DateTo.String() != "2024-01-31" {
					t.Errorf("dates = %s..%s", f.DateFrom, f.DateTo)
				}
				if f.PriceMin == nil || *f.PriceMin != 0 || f.PriceMax == nil || *f.PriceMax != 5000 {
					t.Errorf("price bounds = %v..%v", f.PriceMin, f.PriceMax)
				}
				if f.SortBy != ledger.SortPriceDesc {
					t.Errorf("SortBy = %q", f.SortBy)
				}
			},
		},
		{
			name:       "negative price",
			query:      url.Values{"price_min": {"-1"}},
			wantFields: []string{"price_min"},
		},
		{
			name:       "fractional price",
			query:      url.Values{"price_max": {"10.5"}},
			wantFields: []string{"price_max"},
		},
		{
			name:       "bad date and type",
			query:      url.Values{"date_from": {"01/02/2024"}, "order_type": {"SIDEWAYS"}},
			wantFields: []string{"date_from", "order_type"},
		},
		{
			name:       "unknown sort key",
			query:      url.Values{"sort_by": {"customer"}},
			wantFields: []string{"sort_by"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, fe := ParseOrderFilter(tt.query)
			if len(tt.wantFields) == 0 {
				if fe != nil {
					t.Fatalf("unexpected errors: %v", fe)
				}
				tt.check(t, f)
				return
			}
			if len(fe) != len(tt.wantFields) {
				t.Fatalf("got errors %v, want fields %v", fe, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := fe[field]; !ok {
					t.Errorf("missing error for %s in %v", field, fe)
				}
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, fe := ParseDateRange(url.Values{"date_from": {"2024-03-01"}})
	if fe != nil {
		t.Fatalf("unexpected errors: %v", fe)
	}
	if from.String() != "2024-03-01" || !to.IsZero() {
		t.Errorf("got %q..%q", from, to)
	}

	if _, _, fe := ParseDateRange(url.Values{"date_to": {"tomorrow"}}); fe == nil || fe["date_to"] == "" {
		t.Errorf("expected date_to error, got %v", fe)
	}
}

func TestParsePaging(t *testing.T) {
	tests := []struct {
		query    url.Values
		wantPage int
		wantSize int
	}{
		{url.Values{}, 1, 10},
		{url.Values{"page": {"3"}, "per_page": {"25"}}, 3, 25},
		{url.Values{"page": {"0"}, "per_page": {"7"}}, 1, 10},
		{url.Values{"page": {"abc"}, "per_page": {"100"}}, 1, 100},
	}
	for _, tt := range tests {
		page, size := ParsePaging(tt.query)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("ParsePaging(%v) = %d,%d want %d,%d", tt.query, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
