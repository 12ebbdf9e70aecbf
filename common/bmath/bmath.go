// Package bmath is fixed point weighted pool math. Balances and token amounts
// are raw integers, weights, fees and ratios are BONE scaled.
package bmath

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	BONE           = big.NewInt(1000000000000000000)
	MinBPowBase    = big.NewInt(1)
	MaxBPowBase    = new(big.Int).Sub(new(big.Int).Mul(BONE, big.NewInt(2)), big.NewInt(1))
	BPowPrecision  = new(big.Int).Div(BONE, big.NewInt(10000000000))
	MaxInRatio     = new(big.Int).Div(BONE, big.NewInt(2))
	MaxOutRatio    = new(big.Int).Add(new(big.Int).Div(BONE, big.NewInt(3)), big.NewInt(1))
	MinFee         = new(big.Int).Div(BONE, big.NewInt(1000000))
	MaxFee         = new(big.Int).Div(BONE, big.NewInt(10))
	MinWeight      = new(big.Int).Set(BONE)
	MaxTotalWeight = new(big.Int).Mul(BONE, big.NewInt(50))
)

// errors
var (
	ErrSubUnderflow = errors.New("bmath: SUB_UNDERFLOW")
	ErrDivZero      = errors.New("bmath: DIV_ZERO")
	ErrBaseTooLow   = errors.New("bmath: BPOW_BASE_TOO_LOW")
	ErrBaseTooHigh  = errors.New("bmath: BPOW_BASE_TOO_HIGH")
	ErrMaxInRatio   = errors.New("bmath: MAX_IN_RATIO")
	ErrMaxOutRatio  = errors.New("bmath: MAX_OUT_RATIO")
)

func Btoi(a *big.Int) *big.Int {
	return new(big.Int).Quo(a, BONE)
}

func Bfloor(a *big.Int) *big.Int {
	return new(big.Int).Mul(Btoi(a), BONE)
}

func Badd(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func Bsub(a, b *big.Int) (*big.Int, error) {
	c, neg := BsubSign(a, b)
	if neg {
		return nil, errors.WithStack(ErrSubUnderflow)
	}
	return c, nil
}

// BsubSign returns |a-b| and whether a < b
func BsubSign(a, b *big.Int) (*big.Int, bool) {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Sub(a, b), false
	}
	return new(big.Int).Sub(b, a), true
}

// Bmul rounds half up
func Bmul(a, b *big.Int) *big.Int {
	c := new(big.Int).Mul(a, b)
	c.Add(c, new(big.Int).Quo(BONE, big.NewInt(2)))
	return c.Quo(c, BONE)
}

// BmulDown floors
func BmulDown(a, b *big.Int) *big.Int {
	c := new(big.Int).Mul(a, b)
	return c.Quo(c, BONE)
}

// Bdiv rounds half up
func Bdiv(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errors.WithStack(ErrDivZero)
	}
	c := new(big.Int).Mul(a, BONE)
	c.Add(c, new(big.Int).Quo(b, big.NewInt(2)))
	return c.Quo(c, b), nil
}

// BdivDown floors
func BdivDown(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errors.WithStack(ErrDivZero)
	}
	c := new(big.Int).Mul(a, BONE)
	return c.Quo(c, b), nil
}

// BdivUp ceils
func BdivUp(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errors.WithStack(ErrDivZero)
	}
	c := new(big.Int).Mul(a, BONE)
	c.Add(c, new(big.Int).Sub(b, big.NewInt(1)))
	return c.Quo(c, b), nil
}

// Bpowi raises a to the whole power n by repeated squaring
func Bpowi(a *big.Int, n *big.Int) *big.Int {
	e := new(big.Int).Set(n)
	base := new(big.Int).Set(a)
	z := new(big.Int).Set(BONE)
	if e.Bit(0) == 1 {
		z.Set(base)
	}
	for e.Rsh(e, 1); e.Sign() != 0; e.Rsh(e, 1) {
		base = Bmul(base, base)
		if e.Bit(0) == 1 {
			z = Bmul(z, base)
		}
	}
	return z
}

// Bpow computes base^exp for a BONE scaled exponent: the whole part by Bpowi
// and the fractional part by BpowApprox.
func Bpow(base, exp *big.Int) (*big.Int, error) {
	if base.Cmp(MinBPowBase) < 0 {
		return nil, errors.WithStack(ErrBaseTooLow)
	}
	if base.Cmp(MaxBPowBase) > 0 {
		return nil, errors.WithStack(ErrBaseTooHigh)
	}
	whole := Bfloor(exp)
	remain := new(big.Int).Sub(exp, whole)
	wholePow := Bpowi(base, Btoi(whole))
	if remain.Sign() == 0 {
		return wholePow, nil
	}
	partial := BpowApprox(base, remain, BPowPrecision)
	return Bmul(wholePow, partial), nil
}

// BpowApprox is the binomial series of base^exp for 0 <= exp < BONE,
// stopping once a term falls under precision.
func BpowApprox(base, exp, precision *big.Int) *big.Int {
	a := exp
	x, xneg := BsubSign(base, BONE)
	term := new(big.Int).Set(BONE)
	sum := new(big.Int).Set(term)
	negative := false

	for i := int64(1); term.Cmp(precision) >= 0; i++ {
		bigK := new(big.Int).Mul(big.NewInt(i), BONE)
		c, cneg := BsubSign(a, new(big.Int).Sub(bigK, BONE))
		term = Bmul(term, Bmul(c, x))
		term, _ = Bdiv(term, bigK)
		if term.Sign() == 0 {
			break
		}
		if xneg {
			negative = !negative
		}
		if cneg {
			negative = !negative
		}
		if negative {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	return sum
}

// CalcSpotPrice returns the BONE scaled price of tokenOut in tokenIn including the fee
func CalcSpotPrice(balanceIn, weightIn, balanceOut, weightOut, swapFee *big.Int) (*big.Int, error) {
	numer, err := Bdiv(balanceIn, weightIn)
	if err != nil {
		return nil, err
	}
	denom, err := Bdiv(balanceOut, weightOut)
	if err != nil {
		return nil, err
	}
	ratio, err := Bdiv(numer, denom)
	if err != nil {
		return nil, err
	}
	feeLeft, err := Bsub(BONE, swapFee)
	if err != nil {
		return nil, err
	}
	scale, err := Bdiv(BONE, feeLeft)
	if err != nil {
		return nil, err
	}
	return Bmul(ratio, scale), nil
}

// CalcOutGivenIn floors the paid out amount
func CalcOutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn, swapFee *big.Int) (*big.Int, error) {
	if amountIn.Cmp(BmulDown(balanceIn, MaxInRatio)) > 0 {
		return nil, errors.WithStack(ErrMaxInRatio)
	}
	weightRatio, err := Bdiv(weightIn, weightOut)
	if err != nil {
		return nil, err
	}
	feeLeft, err := Bsub(BONE, swapFee)
	if err != nil {
		return nil, err
	}
	adjustedIn := BmulDown(amountIn, feeLeft)
	y, err := BdivUp(balanceIn, Badd(balanceIn, adjustedIn))
	if err != nil {
		return nil, err
	}
	foo, err := Bpow(y, weightRatio)
	if err != nil {
		return nil, err
	}
	bar, err := Bsub(BONE, foo)
	if err != nil {
		return nil, err
	}
	return BmulDown(balanceOut, bar), nil
}

// CalcInGivenOut ceils the charged in amount
func CalcInGivenOut(balanceIn, weightIn, balanceOut, weightOut, amountOut, swapFee *big.Int) (*big.Int, error) {
	if amountOut.Cmp(BmulDown(balanceOut, MaxOutRatio)) > 0 {
		return nil, errors.WithStack(ErrMaxOutRatio)
	}
	weightRatio, err := Bdiv(weightOut, weightIn)
	if err != nil {
		return nil, err
	}
	diff, err := Bsub(balanceOut, amountOut)
	if err != nil {
		return nil, err
	}
	y, err := BdivUp(balanceOut, diff)
	if err != nil {
		return nil, err
	}
	foo, err := Bpow(y, weightRatio)
	if err != nil {
		return nil, err
	}
	foo, err = Bsub(foo, BONE)
	if err != nil {
		return nil, err
	}
	feeLeft, err := Bsub(BONE, swapFee)
	if err != nil {
		return nil, err
	}
	num := new(big.Int).Mul(balanceIn, foo)
	num.Add(num, new(big.Int).Sub(BONE, big.NewInt(1)))
	num.Quo(num, BONE)
	return BdivUp(num, feeLeft)
}

// CalcPoolOutGivenSingleIn returns the pool tokens minted for a single sided deposit
func CalcPoolOutGivenSingleIn(balanceIn, weightIn, poolSupply, totalWeight, amountIn, swapFee *big.Int) (*big.Int, error) {
	normalizedWeight, err := Bdiv(weightIn, totalWeight)
	if err != nil {
		return nil, err
	}
	nw, err := Bsub(BONE, normalizedWeight)
	if err != nil {
		return nil, err
	}
	zaz := Bmul(nw, swapFee)
	feeLeft, err := Bsub(BONE, zaz)
	if err != nil {
		return nil, err
	}
	amountInAfterFee := BmulDown(amountIn, feeLeft)
	newBalanceIn := Badd(balanceIn, amountInAfterFee)
	inRatio, err := BdivDown(newBalanceIn, balanceIn)
	if err != nil {
		return nil, err
	}
	poolRatio, err := Bpow(inRatio, normalizedWeight)
	if err != nil {
		return nil, err
	}
	newPoolSupply := BmulDown(poolRatio, poolSupply)
	if newPoolSupply.Cmp(poolSupply) <= 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Sub(newPoolSupply, poolSupply), nil
}
