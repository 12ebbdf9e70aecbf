package bmath

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bone(n int64) *big.Int {
	return new(big.Int).Mul(BONE, big.NewInt(n))
}

func TestBpowi(t *testing.T) {
	two := bone(2)
	assert.Equal(t, bone(1).String(), Bpowi(two, big.NewInt(0)).String())
	assert.Equal(t, bone(8).String(), Bpowi(two, big.NewInt(3)).String())
	assert.Equal(t, bone(1024).String(), Bpowi(two, big.NewInt(10)).String())
}

func TestBpowFractional(t *testing.T) {
	base := new(big.Int).Div(bone(3), big.NewInt(2))
	half := new(big.Int).Div(BONE, big.NewInt(2))
	v, err := Bpow(base, half)
	require.NoError(t, err)
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), new(big.Float).SetInt(BONE)).Float64()
	assert.InDelta(t, math.Sqrt(1.5), f, 1e-8)

	_, err = Bpow(bone(2), half)
	assert.ErrorIs(t, err, ErrBaseTooHigh)
	_, err = Bpow(big.NewInt(0), half)
	assert.ErrorIs(t, err, ErrBaseTooLow)
}

func TestCalcOutGivenIn(t *testing.T) {
	tests := []struct {
		name                  string
		balanceIn, weightIn   *big.Int
		balanceOut, weightOut *big.Int
		amountIn, fee         *big.Int
		want                  int64
	}{
		{"even weights no fee", big.NewInt(1e10), bone(5), big.NewInt(1e10), bone(5), big.NewInt(1e8), big.NewInt(0), 99009900},
		{"80/20 with fee", big.NewInt(1e10), bone(8), big.NewInt(2e10), bone(2), big.NewInt(1e8), big.NewInt(3e15), 778109423},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CalcOutGivenIn(tt.balanceIn, tt.weightIn, tt.balanceOut, tt.weightOut, tt.amountIn, tt.fee)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Int64())
		})
	}
}

func TestCalcInGivenOutRoundTrip(t *testing.T) {
	in, err := CalcInGivenOut(big.NewInt(1e10), bone(8), big.NewInt(2e10), bone(2), big.NewInt(778109423), big.NewInt(3e15))
	require.NoError(t, err)
	assert.Equal(t, int64(1e8), in.Int64())

	in, err = CalcInGivenOut(big.NewInt(1e10), bone(5), big.NewInt(1e10), bone(5), big.NewInt(99009900), big.NewInt(0))
	require.NoError(t, err)
	assert.LessOrEqual(t, in.Int64(), int64(1e8))
}

func TestRatioLimits(t *testing.T) {
	_, err := CalcOutGivenIn(big.NewInt(1e10), bone(5), big.NewInt(1e10), bone(5), big.NewInt(5e9+1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrMaxInRatio)

	_, err = CalcInGivenOut(big.NewInt(1e10), bone(5), big.NewInt(1e10), bone(5), big.NewInt(4e9), big.NewInt(0))
	assert.ErrorIs(t, err, ErrMaxOutRatio)
}

func TestCalcPoolOutGivenSingleIn(t *testing.T) {
	supply := big.NewInt(1e9)
	out, err := CalcPoolOutGivenSingleIn(big.NewInt(1e10), bone(5), supply, bone(10), big.NewInt(1e8), big.NewInt(0))
	require.NoError(t, err)
	// half weight: supply * (sqrt(1.01) - 1)
	assert.InDelta(t, 1e9*(math.Sqrt(1.01)-1), float64(out.Int64()), 2)
}

func TestCalcPoolOutGivenSingleInRoundsDown(t *testing.T) {
	half, err := Bdiv(big.NewInt(5), big.NewInt(3))
	require.NoError(t, err)
	down, err := BdivDown(big.NewInt(5), big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, "1666666666666666667", half.String())
	assert.Equal(t, "1666666666666666666", down.String())

	// full weight mints supply * amountIn / balanceIn, exactly 2e18 here
	supply := bone(3)
	out, err := CalcPoolOutGivenSingleIn(big.NewInt(3), bone(1), supply, bone(1), big.NewInt(2), big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, out.Cmp(bone(2)) <= 0, "minted %v", out)
	assert.Equal(t, "1999999999999999998", out.String())
}
