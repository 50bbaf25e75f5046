package core

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength   = 255
	MaxCustomerName = 255
	MaxPartnerName  = 255

	amountMessage = "Enter a non-negative amount no larger than 1,000,000,000,000,000."
)

// FieldErrors maps a field name to a human readable message. A nil or empty
// value means the input was valid.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Err returns fe as an error, or nil when empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// AsFieldErrors unwraps err into FieldErrors.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// OrderInput is the raw, untyped form of an order as it arrives from a
// request body or a command line.
type OrderInput struct {
	Name            string `json:"name"`
	Type            string `json:"order_type"`
	Price           string `json:"price"`
	Date            string `json:"date"`
	Description     string `json:"description"`
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
}

// PartnerInput is the raw form of a partner.
type PartnerInput struct {
	Name         string `json:"name"`
	JoinedAmount string `json:"joined_amount"`
	Percentage   string `json:"percentage"`
}

// ValidateOrder turns raw input into an Order, or reports every invalid field.
func ValidateOrder(in OrderInput) (Order, FieldErrors) {
	fe := FieldErrors{}
	o := Order{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
	}

	switch {
	case o.Name == "":
		fe.Add("name", "This field is required.")
	case utf8.RuneCountInString(o.Name) > MaxNameLength:
		fe.Add("name", "Ensure this value has at most 255 characters.")
	}

	t, err := ParseOrderType(in.Type)
	if err != nil {
		fe.Add("order_type", "Select a valid choice.")
	}
	o.Type = t

	if strings.TrimSpace(in.Price) == "" {
		fe.Add("price", "This field is required.")
	} else if price, err := ParseAmount(in.Price); err != nil {
		fe.Add("price", amountMessage)
	} else {
		o.Price = price
	}

	if strings.TrimSpace(in.Date) == "" {
		fe.Add("date", "This field is required.")
	} else if d, err := ParseDate(in.Date); err != nil {
		fe.Add("date", "Enter a valid date.")
	} else {
		o.Date = d
	}

	if utf8.RuneCountInString(o.CustomerName) > MaxCustomerName {
		fe.Add("customer_name", "Ensure this value has at most 255 characters.")
	}

	if len(fe) > 0 {
		return Order{}, fe
	}
	return o, nil
}

// ValidatePartner turns raw input into a Partner, or reports every invalid field.
func ValidatePartner(in PartnerInput) (Partner, FieldErrors) {
	fe := FieldErrors{}
	p := Partner{Name: strings.TrimSpace(in.Name)}

	switch {
	case p.Name == "":
		fe.Add("name", "This field is required.")
	case utf8.RuneCountInString(p.Name) > MaxPartnerName:
		fe.Add("name", "Ensure this value has at most 255 characters.")
	}

	if strings.TrimSpace(in.JoinedAmount) == "" {
		fe.Add("joined_amount", "This field is required.")
	} else if amount, err := ParseAmount(in.JoinedAmount); err != nil {
		fe.Add("joined_amount", amountMessage)
	} else {
		p.JoinedAmount = amount
	}

	if strings.TrimSpace(in.Percentage) == "" {
		fe.Add("percentage", "This field is required.")
	} else if pct, err := ParsePercentage(in.Percentage); err != nil {
		fe.Add("percentage", "Percentage must be between 0 and 100.")
	} else {
		p.Percentage = pct
	}

	if len(fe) > 0 {
		return Partner{}, fe
	}
	return p, nil
}
