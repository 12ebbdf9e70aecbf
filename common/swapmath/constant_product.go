// Package swapmath holds the pool invariants shared by the reference pools
// and the adapters that quote against them.
package swapmath

import (
	"math/big"

	"github.com/pkg/errors"
)

const (
	// FeeDenominator is the basis point scale of every fee in this package
	FeeDenominator = 10000
	// MinimumLiquidity is locked forever on the first deposit of a pair
	MinimumLiquidity = 1000
)

// errors
var (
	ErrInsufficientAmount       = errors.New("swapmath: INSUFFICIENT_AMOUNT")
	ErrInsufficientInputAmount  = errors.New("swapmath: INSUFFICIENT_INPUT_AMOUNT")
	ErrInsufficientOutputAmount = errors.New("swapmath: INSUFFICIENT_OUTPUT_AMOUNT")
	ErrInsufficientLiquidity    = errors.New("swapmath: INSUFFICIENT_LIQUIDITY")
	ErrNotConverged             = errors.New("swapmath: NOT_CONVERGED")
	ErrInvalidIndex             = errors.New("swapmath: INVALID_INDEX")
)

var zero = big.NewInt(0)

// Quote returns the equivalent amount of the other asset at the reserve ratio
func Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, error) {
	if amountA.Cmp(zero) <= 0 {
		return nil, errors.WithStack(ErrInsufficientAmount)
	}
	if reserveA.Cmp(zero) <= 0 || reserveB.Cmp(zero) <= 0 {
		return nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	return MulDiv(amountA, reserveB, reserveA), nil
}

// GetAmountOut returns floor(in*(D-fee)*rOut / (rIn*D + in*(D-fee)))
func GetAmountOut(feeBps uint32, amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn.Cmp(zero) <= 0 {
		return nil, errors.WithStack(ErrInsufficientInputAmount)
	}
	if reserveIn.Cmp(zero) <= 0 || reserveOut.Cmp(zero) <= 0 {
		return nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(FeeDenominator-int64(feeBps)))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(FeeDenominator))
	denominator.Add(denominator, amountInWithFee)
	return numerator.Quo(numerator, denominator), nil
}

// GetAmountIn returns floor(rIn*out*D / ((rOut-out)*(D-fee))) + 1
func GetAmountIn(feeBps uint32, amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountOut.Cmp(zero) <= 0 {
		return nil, errors.WithStack(ErrInsufficientOutputAmount)
	}
	if reserveIn.Cmp(zero) <= 0 || reserveOut.Cmp(amountOut) <= 0 {
		return nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, big.NewInt(FeeDenominator))
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, big.NewInt(FeeDenominator-int64(feeBps)))
	amountIn := numerator.Quo(numerator, denominator)
	return amountIn.Add(amountIn, big.NewInt(1)), nil
}

// OptimalDeposit returns the amounts a constant product pool accepts for the
// desired pair without moving its price.
func OptimalDeposit(desiredA, desiredB, minA, minB, reserveA, reserveB *big.Int) (*big.Int, *big.Int, error) {
	if reserveA.Sign() == 0 && reserveB.Sign() == 0 {
		return new(big.Int).Set(desiredA), new(big.Int).Set(desiredB), nil
	}
	optimalB, err := Quote(desiredA, reserveA, reserveB)
	if err != nil {
		return nil, nil, err
	}
	if optimalB.Cmp(desiredB) <= 0 {
		if optimalB.Cmp(minB) < 0 {
			return nil, nil, errors.WithStack(ErrInsufficientAmount)
		}
		return new(big.Int).Set(desiredA), optimalB, nil
	}
	optimalA, err := Quote(desiredB, reserveB, reserveA)
	if err != nil {
		return nil, nil, err
	}
	if optimalA.Cmp(desiredA) > 0 || optimalA.Cmp(minA) < 0 {
		return nil, nil, errors.WithStack(ErrInsufficientAmount)
	}
	return optimalA, new(big.Int).Set(desiredB), nil
}

// MulDiv returns floor(a*b/d)
func MulDiv(a, b, d *big.Int) *big.Int {
	c := new(big.Int).Mul(a, b)
	return c.Quo(c, d)
}
