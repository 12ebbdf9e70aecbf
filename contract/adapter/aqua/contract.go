// Package aqua delegates to aqua pools. The adapter deals with each pool as
// its user, holding the funds in between and paying the recipient after.
package aqua

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

type AquaAdapter struct {
	adapter.Base
}

func (cont *AquaAdapter) Init(addr common.Address, master common.Address) {
	cont.Bind(addr, master, adapter.Aqua)
}

func (cont *AquaAdapter) client(cc *types.ContractContext, pool common.Address) *poolClient {
	return &poolClient{cc: cc, pool: pool}
}

// resolvePool prefers the registry and falls back to the router's first pool of the pair
func (cont *AquaAdapter) resolvePool(cc *types.ContractContext, cfg *adapter.CoreConfig, tokenA, tokenB common.Address) (common.Address, error) {
	if info := cont.PoolFor(cc, tokenA, tokenB); info != nil {
		return info.Pool, nil
	}
	is, err := cc.Exec(cc, cfg.Amm, "GetPools", []interface{}{[]common.Address{tokenA, tokenB}})
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	if pools, ok := is[0].([]common.Address); ok && len(pools) > 0 {
		return pools[0], nil
	}
	return ZeroAddress, errors.Wrapf(adapter.ErrUnsupportedPair, "%v/%v", tokenA.String(), tokenB.String())
}

// poolForShare finds the pool that issued the share token
func (cont *AquaAdapter) poolForShare(cc *types.ContractContext, cfg *adapter.CoreConfig, share common.Address) (common.Address, error) {
	if pool, has := cont.PoolForLp(cc, share); has {
		return pool, nil
	}
	is, err := cc.Exec(cc, cfg.Amm, "AllPools", nil)
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	pools, _ := is[0].([]common.Address)
	for _, pool := range pools {
		if id, err := cont.client(cc, pool).shareID(); err == nil && id == share {
			return pool, nil
		}
	}
	return ZeroAddress, errors.Wrap(adapter.ErrPoolNotFound, share.String())
}

//////////////////////////////////////////////////
// Swaps
//////////////////////////////////////////////////

func (cont *AquaAdapter) swapExactIn(cc *types.ContractContext, amountIn, minOut *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
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
	tokenIn, tokenOut, err := adapter.CheckPair(path)
	if err != nil {
		return nil, err
	}
	pool, err := cont.resolvePool(cc, cfg, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if err := cont.Pull(cc, tokenIn, cont.Address(), amountIn); err != nil {
		return nil, err
	}
	return cont.swapHeld(cc, pool, tokenIn, tokenOut, amountIn, minOut, to)
}

func (cont *AquaAdapter) swapHeld(cc *types.ContractContext, pool, tokenIn, tokenOut common.Address, amountIn, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	pc := cont.client(cc, pool)
	in, out, err := pc.indices(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	got, err := pc.swap(cont.Address(), tokenIn, in, out, amountIn, minOut)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, got); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, amountIn, got, []common.Address{tokenIn, tokenOut}, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return got, nil
}

func (cont *AquaAdapter) swapExactOut(cc *types.ContractContext, amountOut, maxIn *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
	cfg, err := cont.CheckReady(cc, deadline)
	if err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut, maxIn); err != nil {
		return nil, err
	}
	tokenIn, tokenOut, err := adapter.CheckPair(path)
	if err != nil {
		return nil, err
	}
	pool, err := cont.resolvePool(cc, cfg, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	pc := cont.client(cc, pool)
	in, out, err := pc.indices(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	need, err := pc.estimateStrict(in, out, amountOut)
	if err != nil {
		return nil, err
	}
	if maxIn.Less(need) {
		return nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "in %v max %v", need.String(), maxIn.String())
	}
	if err := cont.Pull(cc, tokenIn, cont.Address(), need); err != nil {
		return nil, err
	}
	paid, err := pc.swapStrict(cont.Address(), tokenIn, in, out, amountOut, need)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, amountOut); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, paid, amountOut, path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return paid, nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

func (cont *AquaAdapter) addLiquidity(cc *types.ContractContext, tokenA, tokenB common.Address, amtA, amtB, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
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
	pool, err := cont.resolvePool(cc, cfg, tokenA, tokenB)
	if err != nil {
		return nil, nil, nil, err
	}
	pc := cont.client(cc, pool)
	ia, ib, err := pc.indices(tokenA, tokenB)
	if err != nil {
		return nil, nil, nil, err
	}
	rs, err := pc.reserves()
	if err != nil {
		return nil, nil, nil, err
	}
	if rs[ia].Sign() == 0 && rs[ib].Sign() == 0 {
		return nil, nil, nil, errors.Wrapf(adapter.ErrExternalFailure, "empty pool %v", pool.String())
	}
	depA, depB, err := depositAmounts(amtA.Int, amtB.Int, amtAMin.Int, amtBMin.Int, rs[ia], rs[ib])
	if err != nil {
		return nil, nil, nil, err
	}
	total, err := pc.totalShares()
	if err != nil {
		return nil, nil, nil, err
	}
	minShares := expectedShares(depA, depB, rs[ia], rs[ib], total)
	if minShares.Sign() == 0 {
		return nil, nil, nil, errors.WithStack(adapter.ErrInvalidAmount)
	}
	if err := cont.Pull(cc, tokenA, cont.Address(), ToAmount(depA)); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Pull(cc, tokenB, cont.Address(), ToAmount(depB)); err != nil {
		return nil, nil, nil, err
	}
	return cont.depositHeld(cc, pool, tokenA, tokenB, ToAmount(depA), ToAmount(depB), ToAmount(minShares), to, cc.From())
}

// depositHeld deposits funds the adapter holds, sends the shares to to and
// refunds what the pool did not take
func (cont *AquaAdapter) depositHeld(cc *types.ContractContext, pool, tokenA, tokenB common.Address, amtA, amtB, minShares *amount.Amount, to, refund common.Address) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	pc := cont.client(cc, pool)
	tokens, err := pc.tokens()
	if err != nil {
		return nil, nil, nil, err
	}
	ia, _, err := pc.indices(tokenA, tokenB)
	if err != nil {
		return nil, nil, nil, err
	}
	desired := []*amount.Amount{amtA, amtB}
	if ia == 1 {
		desired = []*amount.Amount{amtB, amtA}
	}
	taken, shares, err := pc.deposit(cont.Address(), tokens, desired, minShares)
	if err != nil {
		return nil, nil, nil, err
	}
	actualA, actualB := taken[ia], taken[1-ia]
	if err := cont.Send(cc, tokenA, refund, amtA.Sub(actualA)); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Send(cc, tokenB, refund, amtB.Sub(actualB)); err != nil {
		return nil, nil, nil, err
	}
	share, err := pc.shareID()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Send(cc, share, to, shares); err != nil {
		return nil, nil, nil, err
	}
	if cont.PoolFor(cc, tokenA, tokenB) == nil {
		cont.StorePool(cc, tokenA, tokenB, &adapter.PoolInfo{Pool: pool, LpToken: share})
	}
	cont.EmitAddLp(cc, tokenA, tokenB, share, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, nil, err
	}
	return actualA, actualB, shares, nil
}

// removeLiquidity withdraws by share token, a is the pool's first token and b its second
func (cont *AquaAdapter) removeLiquidity(cc *types.ContractContext, lp common.Address, lpAmount, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, error) {
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
	pool, err := cont.poolForShare(cc, cfg, lp)
	if err != nil {
		return nil, nil, err
	}
	held, err := TokenBalance(cc, lp, cc.From())
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	if held.Less(lpAmount) {
		return nil, nil, errors.Wrapf(adapter.ErrInsufficientLpBalance, "has %v want %v", held.String(), lpAmount.String())
	}
	pc := cont.client(cc, pool)
	tokens, err := pc.tokens()
	if err != nil {
		return nil, nil, err
	}
	if err := cont.Pull(cc, lp, cont.Address(), lpAmount); err != nil {
		return nil, nil, err
	}
	outs, err := pc.withdraw(cont.Address(), lp, lpAmount, []*amount.Amount{amtAMin, amtBMin})
	if err != nil {
		return nil, nil, err
	}
	for i, t := range tokens {
		if err := cont.Send(cc, t, to, outs[i]); err != nil {
			return nil, nil, err
		}
	}
	cont.EmitRemLp(cc, lp, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, err
	}
	return outs[0], outs[1], nil
}

//////////////////////////////////////////////////
// Pre-transferred helpers
//////////////////////////////////////////////////

func (cont *AquaAdapter) swapInPool(cc *types.ContractContext, amtIn, minOut *amount.Amount, tokenIn, tokenOut, pool, to common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amtIn); err != nil {
		return nil, err
	}
	if err := adapter.CheckMin(minOut); err != nil {
		return nil, err
	}
	return cont.swapHeld(cc, pool, tokenIn, tokenOut, amtIn, minOut, to)
}

// addLiqInPool deposits tokens already transferred to the adapter without a share floor
func (cont *AquaAdapter) addLiqInPool(cc *types.ContractContext, tokenA, tokenB common.Address, amountA, amountB *amount.Amount, pool, to common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountA, amountB); err != nil {
		return nil, err
	}
	_, _, shares, err := cont.depositHeld(cc, pool, tokenA, tokenB, amountA, amountB, ZeroAmount.Clone(), to, to)
	if err != nil {
		return nil, err
	}
	return shares, nil
}

//////////////////////////////////////////////////
// Quotes
//////////////////////////////////////////////////

// quoteIn is zero for an empty pool
func (cont *AquaAdapter) quoteIn(cc *types.ContractContext, pool common.Address, amountIn *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	pc := cont.client(cc, pool)
	in, out, err := pc.indices(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	rs, err := pc.reserves()
	if err != nil {
		return nil, err
	}
	if rs[in].Sign() == 0 || rs[out].Sign() == 0 {
		return amount.NewAmount(0), nil
	}
	return pc.estimate(in, out, amountIn)
}

func (cont *AquaAdapter) quoteOut(cc *types.ContractContext, pool common.Address, amountOut *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut); err != nil {
		return nil, err
	}
	pc := cont.client(cc, pool)
	in, out, err := pc.indices(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	rs, err := pc.reserves()
	if err != nil {
		return nil, err
	}
	if rs[out].Cmp(amountOut.Int) <= 0 {
		return nil, errors.Wrapf(adapter.ErrInsufficientLiquidity, "reserve %v out %v", rs[out].String(), amountOut.String())
	}
	return pc.estimateStrict(in, out, amountOut)
}
