// Package soroswap adapts the soroswap constant product factory and pairs
package soroswap

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/swapmath"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// SoroswapAdapter trades on pairs of the factory bound at Initialize
type SoroswapAdapter struct {
	adapter.Base
}

func (cont *SoroswapAdapter) Init(addr common.Address, master common.Address) {
	cont.Bind(addr, master, adapter.Soroswap)
}

func (cont *SoroswapAdapter) swapExactIn(cc *types.ContractContext, amountIn, minOut *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
	cfg, err := cont.CheckReady(cc, deadline)
	if err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	if err := adapter.CheckMin(minOut); err != nil {
		return nil, err
	}
	amounts, pairs, err := getAmountsOut(cc, cfg.Amm, amountIn.Int, path)
	if err != nil {
		return nil, err
	}
	out := amounts[len(amounts)-1]
	if out.Cmp(minOut.Int) < 0 {
		return nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "out %v min %v", out.String(), minOut.String())
	}
	if err := cont.Pull(cc, path[0], pairs[0], amountIn); err != nil {
		return nil, err
	}
	if err := _swap(cc, amounts, path, pairs, to); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, amountIn, toAmount(out), path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return toAmount(out), nil
}

func (cont *SoroswapAdapter) swapExactOut(cc *types.ContractContext, amountOut, maxIn *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
	cfg, err := cont.CheckReady(cc, deadline)
	if err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut, maxIn); err != nil {
		return nil, err
	}
	amounts, pairs, err := getAmountsIn(cc, cfg.Amm, amountOut.Int, path)
	if err != nil {
		return nil, err
	}
	in := amounts[0]
	if in.Cmp(maxIn.Int) > 0 {
		return nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "in %v max %v", in.String(), maxIn.String())
	}
	if err := cont.Pull(cc, path[0], pairs[0], toAmount(in)); err != nil {
		return nil, err
	}
	if err := _swap(cc, amounts, path, pairs, to); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, toAmount(in), amountOut, path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return toAmount(in), nil
}

// addLiquidity creates the pair on first use and deposits at the pair's ratio
func (cont *SoroswapAdapter) addLiquidity(cc *types.ContractContext, tokenA, tokenB common.Address, amtA, amtB, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	cfg, err := cont.CheckReady(cc, deadline)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := adapter.CheckAmount(amtA, amtB); err != nil {
		return nil, nil, nil, err
	}
	if err := adapter.CheckMin(amtAMin, amtBMin); err != nil {
		return nil, nil, nil, err
	}
	if tokenA == tokenB {
		return nil, nil, nil, errors.WithStack(adapter.ErrInvalidArgument)
	}

	pair, err := pairFor(cc, cfg.Amm, tokenA, tokenB)
	if errors.Is(err, adapter.ErrUnsupportedPair) {
		is, cerr := cc.Exec(cc, cfg.Amm, "CreatePair", []interface{}{tokenA, tokenB})
		if cerr != nil {
			return nil, nil, nil, adapter.External(cerr)
		}
		if pair, err = AddressResult(is, 0); err != nil {
			return nil, nil, nil, adapter.External(err)
		}
	} else if err != nil {
		return nil, nil, nil, err
	}

	reserveA, reserveB, err := getReserves(cc, pair, tokenA, tokenB)
	if err != nil {
		return nil, nil, nil, err
	}
	amountA, amountB, err := swapmath.OptimalDeposit(amtA.Int, amtB.Int, amtAMin.Int, amtBMin.Int, reserveA, reserveB)
	if err != nil {
		return nil, nil, nil, adapter.ErrMinAmountNotMet.Wrap(err)
	}

	if err := cont.Pull(cc, tokenA, pair, ToAmount(amountA)); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Pull(cc, tokenB, pair, ToAmount(amountB)); err != nil {
		return nil, nil, nil, err
	}
	is, err := cc.Exec(cc, pair, "Mint", []interface{}{to})
	if err != nil {
		return nil, nil, nil, adapter.External(err)
	}
	liquidity, err := AmountResult(is, 0)
	if err != nil {
		return nil, nil, nil, adapter.External(err)
	}

	cont.StorePool(cc, tokenA, tokenB, &adapter.PoolInfo{Pool: pair, LpToken: pair})
	cont.EmitAddLp(cc, tokenA, tokenB, pair, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, nil, err
	}
	return ToAmount(amountA), ToAmount(amountB), liquidity, nil
}

// removeLiquidity burns pair shares, a is token0 of the pair and b token1
func (cont *SoroswapAdapter) removeLiquidity(cc *types.ContractContext, lp common.Address, lpAmount, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, error) {
	cfg, err := cont.CheckReady(cc, deadline)
	if err != nil {
		return nil, nil, err
	}
	if err := adapter.CheckAmount(lpAmount); err != nil {
		return nil, nil, err
	}
	if err := adapter.CheckMin(amtAMin, amtBMin); err != nil {
		return nil, nil, err
	}
	if !cc.IsContract(lp) {
		return nil, nil, errors.Wrap(adapter.ErrPoolNotFound, lp.String())
	}
	token0, token1, err := pairTokens(cc, lp)
	if err != nil {
		return nil, nil, errors.Wrap(adapter.ErrPoolNotFound, lp.String())
	}
	if pair, err := pairFor(cc, cfg.Amm, token0, token1); err != nil || pair != lp {
		return nil, nil, errors.Wrap(adapter.ErrPoolNotFound, lp.String())
	}
	held, err := TokenBalance(cc, lp, cc.From())
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	if held.Less(lpAmount) {
		return nil, nil, errors.Wrapf(adapter.ErrInsufficientLpBalance, "has %v want %v", held.String(), lpAmount.String())
	}

	if err := cont.Pull(cc, lp, lp, lpAmount); err != nil {
		return nil, nil, err
	}
	is, err := cc.Exec(cc, lp, "Burn", []interface{}{to})
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	amount0, err := AmountResult(is, 0)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	amount1, err := AmountResult(is, 1)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	if amount0.Less(amtAMin) || amount1.Less(amtBMin) {
		return nil, nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "got %v/%v", amount0.String(), amount1.String())
	}
	cont.EmitRemLp(cc, lp, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

func (cont *SoroswapAdapter) quoteIn(cc *types.ContractContext, pool common.Address, amountIn *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	reserveIn, reserveOut, err := getReserves(cc, pool, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return amount.NewAmount(0), nil
	}
	out, err := swapmath.GetAmountOut(FeeBps, amountIn.Int, reserveIn, reserveOut)
	if err != nil {
		return nil, mathError(err)
	}
	return ToAmount(out), nil
}

func (cont *SoroswapAdapter) quoteOut(cc *types.ContractContext, pool common.Address, amountOut *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut); err != nil {
		return nil, err
	}
	reserveIn, reserveOut, err := getReserves(cc, pool, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	in, err := swapmath.GetAmountIn(FeeBps, amountOut.Int, reserveIn, reserveOut)
	if err != nil {
		return nil, mathError(err)
	}
	return ToAmount(in), nil
}

