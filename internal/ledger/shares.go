package ledger

import (
	"github.com/shopspring/decimal"

	"daftar/internal/core"
)

// PartnerShare is one partner's portion of the profit. Amount is exact;
// Rounded is Amount rounded half away from zero to a whole dinar.
type PartnerShare struct {
	Partner core.Partner
	Amount  decimal.Decimal
}

// Rounded returns the share in whole IQD. Each partner is rounded on its
// own, so rounded shares need not add up to the profit.
func (s PartnerShare) Rounded() int64 {
	return s.Amount.Round(0).IntPart()
}

// Shares splits profit across partners by percentage, preserving the order
// of partners. A negative profit yields negative shares.
func Shares(profit int64, partners []core.Partner) []PartnerShare {
	total := decimal.NewFromInt(profit)
	out := make([]PartnerShare, 0, len(partners))
	for _, p := range partners {
		out = append(out, PartnerShare{
			Partner: p,
			Amount:  total.Mul(p.Percentage).Shift(-2),
		})
	}
	return out
}
