package swapmath

import (
	"math/big"

	"github.com/pkg/errors"
)

// APrecision scales the amplification coefficient
const APrecision = 100

// GetD solves the stableswap invariant
// A * sum(x_i) * n**n + D = A * D * n**n + D**(n+1) / (n**n * prod(x_i))
// by Newton iteration. amp is A * APrecision.
func GetD(xp []*big.Int, amp *big.Int) (*big.Int, error) {
	N := int64(len(xp))
	S := big.NewInt(0)
	for _, x := range xp {
		S.Add(S, x)
	}
	if S.Sign() == 0 {
		return big.NewInt(0), nil
	}

	D := new(big.Int).Set(S)
	Dprev := big.NewInt(0)
	Ann := new(big.Int).Mul(amp, big.NewInt(N))
	for k := 0; k < 255; k++ {
		D_P := new(big.Int).Set(D)
		for _, x := range xp {
			if x.Sign() <= 0 {
				return nil, errors.WithStack(ErrInsufficientLiquidity)
			}
			D_P = MulDiv(D_P, D, new(big.Int).Mul(x, big.NewInt(N)))
		}
		Dprev.Set(D)
		// (Ann * S / A_PRECISION + D_P * N) * D / ((Ann - A_PRECISION) * D / A_PRECISION + (N + 1) * D_P)
		num := new(big.Int).Add(MulDiv(Ann, S, big.NewInt(APrecision)), new(big.Int).Mul(D_P, big.NewInt(N)))
		den := new(big.Int).Add(
			MulDiv(new(big.Int).Sub(Ann, big.NewInt(APrecision)), D, big.NewInt(APrecision)),
			new(big.Int).Mul(D_P, big.NewInt(N+1)))
		D = MulDiv(num, D, den)

		if new(big.Int).Abs(new(big.Int).Sub(D, Dprev)).Cmp(big.NewInt(1)) <= 0 {
			return D, nil
		}
	}
	return nil, errors.WithStack(ErrNotConverged)
}

// GetY returns the new balance of coin out when coin in is set to x
// x_1**2 + x_1 * (sum' - (A*n**n - 1) * D / (A * n**n)) = D ** (n + 1) / (n ** (2 * n) * prod' * A)
func GetY(in, out int, x *big.Int, xp []*big.Int, amp *big.Int) (*big.Int, error) {
	N := len(xp)
	if in == out || out < 0 || out >= N || in < 0 || in >= N {
		return nil, errors.WithStack(ErrInvalidIndex)
	}
	D, err := GetD(xp, amp)
	if err != nil {
		return nil, err
	}
	Ann := new(big.Int).Mul(amp, big.NewInt(int64(N)))
	c := new(big.Int).Set(D)
	S := big.NewInt(0)
	for k := 0; k < N; k++ {
		var _x *big.Int
		if k == in {
			_x = x
		} else if k != out {
			_x = xp[k]
		} else {
			continue
		}
		S.Add(S, _x)
		c = MulDiv(c, D, new(big.Int).Mul(_x, big.NewInt(int64(N))))
	}
	c = MulDiv(new(big.Int).Mul(c, D), big.NewInt(APrecision), new(big.Int).Mul(Ann, big.NewInt(int64(N))))
	b := new(big.Int).Add(S, MulDiv(D, big.NewInt(APrecision), Ann))
	b.Sub(b, D)
	y := new(big.Int).Set(D)
	yPrev := big.NewInt(0)
	for k := 0; k < 255; k++ {
		yPrev.Set(y)
		num := new(big.Int).Add(new(big.Int).Mul(y, y), c)
		den := new(big.Int).Add(new(big.Int).Mul(y, big.NewInt(2)), b)
		y = num.Quo(num, den)
		if new(big.Int).Abs(new(big.Int).Sub(y, yPrev)).Cmp(big.NewInt(1)) <= 0 {
			return y, nil
		}
	}
	return nil, errors.WithStack(ErrNotConverged)
}

// GetDy returns the output for dx of coin in after the fee
func GetDy(in, out int, dx *big.Int, xp []*big.Int, amp *big.Int, feeBps uint32) (*big.Int, error) {
	if dx.Sign() <= 0 {
		return nil, errors.WithStack(ErrInsufficientInputAmount)
	}
	x := new(big.Int).Add(xp[in], dx)
	y, err := GetY(in, out, x, xp, amp)
	if err != nil {
		return nil, err
	}
	dy := new(big.Int).Sub(xp[out], y)
	dy.Sub(dy, big.NewInt(1))
	if dy.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	fee := MulDiv(dy, big.NewInt(int64(feeBps)), big.NewInt(FeeDenominator))
	return dy.Sub(dy, fee), nil
}

// GetDx returns the input of coin in needed to receive dy of coin out after the fee
func GetDx(in, out int, dy *big.Int, xp []*big.Int, amp *big.Int, feeBps uint32) (*big.Int, error) {
	if dy.Sign() <= 0 {
		return nil, errors.WithStack(ErrInsufficientOutputAmount)
	}
	// dy before fee, rounded up
	gross := new(big.Int).Mul(dy, big.NewInt(FeeDenominator))
	den := big.NewInt(FeeDenominator - int64(feeBps))
	gross.Add(gross, new(big.Int).Sub(den, big.NewInt(1)))
	gross.Quo(gross, den)
	if gross.Cmp(xp[out]) >= 0 {
		return nil, errors.WithStack(ErrInsufficientLiquidity)
	}
	y := new(big.Int).Sub(xp[out], gross)
	y.Sub(y, big.NewInt(1))
	x, err := GetY(out, in, y, xp, amp)
	if err != nil {
		return nil, err
	}
	dx := new(big.Int).Sub(x, xp[in])
	return dx.Add(dx, big.NewInt(1)), nil
}
