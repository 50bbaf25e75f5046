package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Ingoing  OrderType = "IN"
	Outgoing OrderType = "OUT"
	Unset    OrderType = ""
)

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

const (
	EntityOrder   = "Order"
	EntityPartner = "Partner"
)

// DateLayout is the wire and storage form of a Date.
const DateLayout = "2006-01-02"

type (
	OrderType string

	Action string

	// Date is a calendar date without a time component. The zero value
	// means "absent".
	Date struct {
		time.Time
	}

	Order struct {
		ID              int64
		Name            string
		Type            OrderType
		Price           int64 // whole IQD
		Date            Date
		Description     string
		CustomerName    string
		CustomerAddress string
	}

	Partner struct {
		ID           int64
		Name         string
		JoinedAmount int64
		Percentage   decimal.Decimal
	}

	// Activity is one audit trail entry.
	Activity struct {
		ID         string
		Timestamp  time.Time
		User       string // empty when the change was not attributed
		Action     Action
		ModelName  string
		ObjectID   int64
		ObjectRepr string
		Details    string
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidOrderType  = errors.New("invalid order type")
)

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseOrderType accepts IN, OUT or the empty string (unset).
func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Ingoing, Outgoing, Unset:
		return t, nil
	default:
		return Unset, fmt.Errorf("%w: %q", ErrInvalidOrderType, s)
	}
}

// Label is the human readable type name used in exports and log entries.
func (t OrderType) Label() string {
	switch t {
	case Ingoing:
		return "Ingoing"
	case Outgoing:
		return "Outgoing"
	default:
		return ""
	}
}

// SignedAmount is +price for ingoing orders, -price for outgoing ones and
// zero otherwise.
func (o Order) SignedAmount() int64 {
	switch o.Type {
	case Ingoing:
		return o.Price
	case Outgoing:
		return -o.Price
	default:
		return 0
	}
}

func (o Order) String() string {
	label := o.Type.Label()
	if label == "" {
		label = "Unset"
	}
	return fmt.Sprintf("%s - %s - %d on %s", o.Name, label, o.Price, o.Date)
}

func (p Partner) String() string {
	return fmt.Sprintf("%s (%s%%)", p.Name, p.Percentage.StringFixed(2))
}
