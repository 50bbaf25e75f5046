package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"daftar/internal/core"
	"daftar/internal/ledger"
	"daftar/internal/log"
	"daftar/internal/storage"
)

type orderJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	OrderType       string `json:"order_type"`
	OrderTypeLabel  string `json:"order_type_label"`
	Price           int64  `json:"price"`
	PriceDisplay    string `json:"price_display"`
	Date            string `json:"date"`
	Description     string `json:"description"`
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
}

func newOrderJSON(o core.Order) orderJSON {
	return orderJSON{
		ID:              o.ID,
		Name:            o.Name,
		OrderType:       string(o.Type),
		OrderTypeLabel:  o.Type.Label(),
		Price:           o.Price,
		PriceDisplay:    core.FormatIQD(o.Price),
		Date:            o.Date.String(),
		Description:     o.Description,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
	}
}

type partnerJSON struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	JoinedAmount        int64  `json:"joined_amount"`
	JoinedAmountDisplay string `json:"joined_amount_display"`
	Percentage          string `json:"percentage"`
}

func newPartnerJSON(p core.Partner) partnerJSON {
	return partnerJSON{
		ID:                  p.ID,
		Name:                p.Name,
		JoinedAmount:        p.JoinedAmount,
		JoinedAmountDisplay: core.FormatIQD(p.JoinedAmount),
		Percentage:          p.Percentage.StringFixed(2),
	}
}

type activityJSON struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	User       string    `json:"user,omitempty"`
	Action     string    `json:"action"`
	ModelName  string    `json:"model_name"`
	ObjectID   int64     `json:"object_id"`
	ObjectRepr string    `json:"object_repr"`
	Details    string    `json:"details,omitempty"`
}

func newActivityJSON(a core.Activity) activityJSON {
	return activityJSON{
		ID:         a.ID,
		Timestamp:  a.Timestamp,
		User:       a.User,
		Action:     string(a.Action),
		ModelName:  a.ModelName,
		ObjectID:   a.ObjectID,
		ObjectRepr: a.ObjectRepr,
		Details:    a.Details,
	}
}

type shareJSON struct {
	PartnerID    int64  `json:"partner_id"`
	Name         string `json:"name"`
	Percentage   string `json:"percentage"`
	Share        string `json:"share"`
	Rounded      int64  `json:"share_rounded"`
	ShareDisplay string `json:"share_display"`
}

type dashboardJSON struct {
	DateFrom      string            `json:"date_from"`
	DateTo        string            `json:"date_to"`
	Summary       ledger.Summary    `json:"summary"`
	Display       map[string]string `json:"display"`
	PartnerShares []shareJSON       `json:"partner_shares"`
}

func newDashboardJSON(d ledger.Dashboard) dashboardJSON {
	out := dashboardJSON{
		DateFrom: d.DateFrom.String(),
		DateTo:   d.DateTo.String(),
		Summary:  d.Summary,
		Display: map[string]string{
			"total_ingoing":  core.FormatIQD(d.Summary.TotalIngoing),
			"total_outgoing": core.FormatIQD(d.Summary.TotalOutgoing),
			"total_profit":   core.FormatIQD(d.Summary.TotalProfit),
		},
		PartnerShares: make([]shareJSON, 0, len(d.Shares)),
	}
	for _, s := range d.Shares {
		out.PartnerShares = append(out.PartnerShares, shareJSON{
			PartnerID:    s.Partner.ID,
			Name:         s.Partner.Name,
			Percentage:   s.Partner.Percentage.StringFixed(2),
			Share:        s.Amount.String(),
			Rounded:      s.Rounded(),
			ShareDisplay: core.FormatIQDValue(s.Amount),
		})
	}
	return out
}

type paginationJSON struct {
	ledger.PageMeta
	BaseQuery     string `json:"base_query"`
	PreviousQuery string `json:"previous_query,omitempty"`
	NextQuery     string `json:"next_query,omitempty"`
}

func newPaginationJSON(meta ledger.PageMeta, params url.Values) paginationJSON {
	base := ledger.QueryWithoutPage(params)
	p := paginationJSON{PageMeta: meta, BaseQuery: base}
	if meta.HasPrevious {
		p.PreviousQuery = ledger.PageQuery(base, meta.PreviousNumber())
	}
	if meta.HasNext {
		p.NextQuery = ledger.PageQuery(base, meta.NextNumber())
	}
	return p
}

type listJSON[T any] struct {
	Items      []T            `json:"items"`
	Pagination paginationJSON `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Validation failures
// carry their field messages; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := core.AsFieldErrors(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
		return
	}

	switch {
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, storage.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, map[string]any{
			"errors": core.FieldErrors{"name": "A record with this name already exists."},
		})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
