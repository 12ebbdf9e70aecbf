package soroswap

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/swapmath"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// FeeBps is the soroswap pair fee, 997/1000
const FeeBps = 30

// pairFor asks the factory for the pair, unknown pairs are unsupported
func pairFor(cc *types.ContractContext, factory, tokenA, tokenB common.Address) (common.Address, error) {
	is, err := cc.Exec(cc, factory, "GetPair", []interface{}{tokenA, tokenB})
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	pair, err := AddressResult(is, 0)
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	if pair == ZeroAddress {
		return ZeroAddress, errors.Wrapf(adapter.ErrUnsupportedPair, "%v/%v", tokenA.String(), tokenB.String())
	}
	return pair, nil
}

// pairTokens returns token0 and token1 of the pair
func pairTokens(cc *types.ContractContext, pair common.Address) (common.Address, common.Address, error) {
	is, err := cc.Exec(cc, pair, "Token0", []interface{}{})
	if err != nil {
		return ZeroAddress, ZeroAddress, adapter.External(err)
	}
	token0, err := AddressResult(is, 0)
	if err != nil {
		return ZeroAddress, ZeroAddress, adapter.External(err)
	}
	is, err = cc.Exec(cc, pair, "Token1", []interface{}{})
	if err != nil {
		return ZeroAddress, ZeroAddress, adapter.External(err)
	}
	token1, err := AddressResult(is, 0)
	if err != nil {
		return ZeroAddress, ZeroAddress, adapter.External(err)
	}
	return token0, token1, nil
}

// getReserves fetches the reserves of the pair sorted to tokenA, tokenB
func getReserves(cc *types.ContractContext, pair, tokenA, tokenB common.Address) (*big.Int, *big.Int, error) {
	token0, token1, err := pairTokens(cc, pair)
	if err != nil {
		return nil, nil, err
	}
	if !(tokenA == token0 && tokenB == token1) && !(tokenA == token1 && tokenB == token0) {
		return nil, nil, errors.Wrapf(adapter.ErrUnsupportedPair, "pair %v", pair.String())
	}
	is, err := cc.Exec(cc, pair, "GetReserves", []interface{}{})
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	reserve0, err := AmountResult(is, 0)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	reserve1, err := AmountResult(is, 1)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	if tokenA == token0 {
		return reserve0.Int, reserve1.Int, nil
	}
	return reserve1.Int, reserve0.Int, nil
}

func mathError(err error) error {
	switch errors.Cause(err) {
	case swapmath.ErrInsufficientLiquidity:
		return adapter.ErrInsufficientLiquidity.Wrap(err)
	case swapmath.ErrInsufficientInputAmount, swapmath.ErrInsufficientOutputAmount, swapmath.ErrInsufficientAmount:
		return adapter.ErrInvalidAmount.Wrap(err)
	}
	return adapter.External(err)
}

// getAmountsOut performs chained getAmountOut calculations on any number of pairs
func getAmountsOut(cc *types.ContractContext, factory common.Address, amountIn *big.Int, path []common.Address) ([]*big.Int, []common.Address, error) {
	if len(path) < 2 {
		return nil, nil, errors.WithStack(adapter.ErrInvalidPath)
	}
	amounts := make([]*big.Int, len(path))
	pairs := make([]common.Address, len(path)-1)
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		pair, err := pairFor(cc, factory, path[i], path[i+1])
		if err != nil {
			return nil, nil, err
		}
		reserveIn, reserveOut, err := getReserves(cc, pair, path[i], path[i+1])
		if err != nil {
			return nil, nil, err
		}
		am, err := swapmath.GetAmountOut(FeeBps, amounts[i], reserveIn, reserveOut)
		if err != nil {
			return nil, nil, mathError(err)
		}
		amounts[i+1] = am
		pairs[i] = pair
	}
	return amounts, pairs, nil
}

// getAmountsIn performs chained getAmountIn calculations on any number of pairs
func getAmountsIn(cc *types.ContractContext, factory common.Address, amountOut *big.Int, path []common.Address) ([]*big.Int, []common.Address, error) {
	if len(path) < 2 {
		return nil, nil, errors.WithStack(adapter.ErrInvalidPath)
	}
	amounts := make([]*big.Int, len(path))
	pairs := make([]common.Address, len(path)-1)
	amounts[len(amounts)-1] = amountOut
	for i := len(path) - 1; i > 0; i-- {
		pair, err := pairFor(cc, factory, path[i-1], path[i])
		if err != nil {
			return nil, nil, err
		}
		reserveIn, reserveOut, err := getReserves(cc, pair, path[i-1], path[i])
		if err != nil {
			return nil, nil, err
		}
		am, err := swapmath.GetAmountIn(FeeBps, amounts[i], reserveIn, reserveOut)
		if err != nil {
			return nil, nil, mathError(err)
		}
		amounts[i-1] = am
		pairs[i-1] = pair
	}
	return amounts, pairs, nil
}

// _swap walks the path, each pair pays the next one and the last pays to.
// The first pair must already hold amounts[0].
func _swap(cc *types.ContractContext, amounts []*big.Int, path []common.Address, pairs []common.Address, to common.Address) error {
	for i := 0; i < len(path)-1; i++ {
		input, output := path[i], path[i+1]
		token0, _, err := common.SortTokens(input, output)
		if err != nil {
			return adapter.External(err)
		}
		amountOut := amounts[i+1]
		amount0Out, amount1Out := amountOut, big.NewInt(0)
		if input == token0 {
			amount0Out, amount1Out = big.NewInt(0), amountOut
		}
		dest := to
		if i < len(path)-2 {
			dest = pairs[i+1]
		}
		if _, err := cc.Exec(cc, pairs[i], "Swap", []interface{}{ToAmount(amount0Out), ToAmount(amount1Out), dest}); err != nil {
			return adapter.External(err)
		}
	}
	return nil
}

func toAmount(b *big.Int) *amount.Amount {
	return ToAmount(Clone(b))
}
