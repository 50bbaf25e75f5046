package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core"
)

func TestSharesExample(t *testing.T) {
	shares := Shares(600, []core.Partner{{Name: "A", Percentage: pct("50")}})

	require.Len(t, shares, 1)
	assert.Equal(t, "A", shares[0].Partner.Name)
	assert.True(t, shares[0].Amount.Equal(pct("300")))
	assert.Equal(t, int64(300), shares[0].Rounded())
}

func TestSharesPreserveOrderAndSum(t *testing.T) {
	partners := []core.Partner{
		{Name: "Ahmed", Percentage: pct("33.33")},
		{Name: "Baraa", Percentage: pct("33.33")},
		{Name: "Zaid", Percentage: pct("33.34")},
	}

	shares := Shares(1000000, partners)

	require.Len(t, shares, 3)
	sum := int64(0)
	for i, s := range shares {
		assert.Equal(t, partners[i].Name, s.Partner.Name)
		sum += s.Rounded()
	}
	assert.Equal(t, int64(1000000), sum)
}

func TestSharesRoundHalfAwayFromZero(t *testing.T) {
	partners := []core.Partner{
		{Name: "A", Percentage: pct("50")},
		{Name: "B", Percentage: pct("50")},
	}

	up := Shares(1001, partners)
	assert.True(t, up[0].Amount.Equal(pct("500.5")))
	assert.Equal(t, int64(501), up[0].Rounded())
	assert.Equal(t, int64(501), up[1].Rounded(), "each partner is rounded independently")

	down := Shares(-1001, partners)
	assert.Equal(t, int64(-501), down[0].Rounded())
}

func TestSharesNegativeAndZero(t *testing.T) {
	partners := []core.Partner{
		{Name: "Loss", Percentage: pct("25")},
		{Name: "Silent", Percentage: pct("0")},
		{Name: "Unset"},
	}

	for _, profit := range []int64{-4000, 0, 4000} {
		shares := Shares(profit, partners)
		assert.Equal(t, profit/4, shares[0].Rounded())
		assert.True(t, shares[1].Amount.IsZero())
		assert.True(t, shares[2].Amount.IsZero())
	}
}

func TestSharesNoPartners(t *testing.T) {
	assert.Empty(t, Shares(1000, nil))
}
