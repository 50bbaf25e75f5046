package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"daftar/internal/core"
	"daftar/internal/ledger"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request")

// Query parameter names accepted by the list and dashboard endpoints.
const (
	paramSearch    = "search"
	paramOrderType = "order_type"
	paramDateFrom  = "date_from"
	paramDateTo    = "date_to"
	paramPriceMin  = "price_min"
	paramPriceMax  = "price_max"
	paramSortBy    = "sort_by"
)

// ParseOrderFilter builds a ledger filter from query parameters. Empty
// parameters are treated as absent; every malformed one is reported.
func ParseOrderFilter(q url.Values) (ledger.Filter, core.FieldErrors) {
	fe := core.FieldErrors{}
	f := ledger.Filter{
		Search: sanitizeInput(q.Get(paramSearch)),
	}

	if v := strings.TrimSpace(q.Get(paramOrderType)); v != "" {
		t, err := core.ParseOrderType(v)
		if err != nil || t == core.Unset {
			fe.Add(paramOrderType, "Select a valid choice. IN or OUT.")
		} else {
			f.Type = t
		}
	}

	f.DateFrom = parseDateParam(q, paramDateFrom, fe)
	f.DateTo = parseDateParam(q, paramDateTo, fe)
	f.PriceMin = parsePriceParam(q, paramPriceMin, fe)
	f.PriceMax = parsePriceParam(q, paramPriceMax, fe)

	if v := strings.TrimSpace(q.Get(paramSortBy)); v != "" {
		k := ledger.SortKey(v)
		if !k.Valid() {
			fe.Add(paramSortBy, "Select a valid choice.")
		} else {
			f.SortBy = k
		}
	}

	if len(fe) > 0 {
		return ledger.Filter{}, fe
	}
	return f, nil
}

// ParseDateRange reads the optional date_from/date_to pair.
func ParseDateRange(q url.Values) (from, to core.Date, fe core.FieldErrors) {
	fe = core.FieldErrors{}
	from = parseDateParam(q, paramDateFrom, fe)
	to = parseDateParam(q, paramDateTo, fe)
	if len(fe) > 0 {
		return core.Date{}, core.Date{}, fe
	}
	return from, to, nil
}

// ParsePaging reads page and per_page, clamping both.
func ParsePaging(q url.Values) (page, size int) {
	return ledger.ParsePage(q.Get(ledger.PageParam)), ledger.ParsePageSize(q.Get(ledger.PageSizeParam))
}

func parseDateParam(q url.Values, key string, fe core.FieldErrors) core.Date {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(v)
	if err != nil {
		fe.Add(key, "Enter a valid date.")
		return core.Date{}
	}
	return d
}

func parsePriceParam(q url.Values, key string, fe core.FieldErrors) *int64 {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		fe.Add(key, "Enter a whole number.")
		return nil
	}
	if n < 0 {
		fe.Add(key, "Ensure this value is greater than or equal to 0.")
		return nil
	}
	return &n
}

// decodeFields reads a flat JSON object body. Numbers and booleans are
// kept in their literal form so that amounts reach validation unchanged.
func decodeFields(r *http.Request) (map[string]string, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = sanitizeInput(stringValue(v))
	}
	return fields, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func decodeOrderInput(r *http.Request) (core.OrderInput, error) {
	f, err := decodeFields(r)
	if err != nil {
		return core.OrderInput{}, err
	}
	return core.OrderInput{
		Name:            f["name"],
		Type:            f["order_type"],
		Price:           f["price"],
		Date:            f["date"],
		Description:     f["description"],
		CustomerName:    f["customer_name"],
		CustomerAddress: f["customer_address"],
	}, nil
}

func decodePartnerInput(r *http.Request) (core.PartnerInput, error) {
	f, err := decodeFields(r)
	if err != nil {
		return core.PartnerInput{}, err
	}
	return core.PartnerInput{
		Name:         f["name"],
		JoinedAmount: f["joined_amount"],
		Percentage:   f["percentage"],
	}, nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", errBadRequest)
	}
	return id, nil
}

// sanitizeInput removes control characters other than tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
