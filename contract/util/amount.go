package util

import (
	"math/big"

	"github.com/hoops-finance/hoops/common/amount"
)

func ToAmount(b *big.Int) *amount.Amount {
	return &amount.Amount{Int: b}
}

func ToAmounts(b []*big.Int) []*amount.Amount {
	result := make([]*amount.Amount, len(b))
	for i := range b {
		result[i] = ToAmount(b[i])
	}
	return result
}

func ToBigInts(b []*amount.Amount) []*big.Int {
	result := make([]*big.Int, len(b))
	for i := range b {
		result[i] = Clone(b[i].Int)
	}
	return result
}

// IsPlusAmount returns a > 0 for a possibly nil amount
func IsPlusAmount(a *amount.Amount) bool {
	return a != nil && a.Int != nil && a.IsPlus()
}
