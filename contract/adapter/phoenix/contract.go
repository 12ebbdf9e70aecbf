// Package phoenix delegates to phoenix pools found through the factory bound
// at Initialize. Outputs land on the adapter first and are forwarded.
package phoenix

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	external "github.com/hoops-finance/hoops/contract/external/phoenix"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

type PhoenixAdapter struct {
	adapter.Base
}

func (cont *PhoenixAdapter) Init(addr common.Address, master common.Address) {
	cont.Bind(addr, master, adapter.Phoenix)
}

func (cont *PhoenixAdapter) client(cc *types.ContractContext, pool common.Address) *poolClient {
	return &poolClient{cc: cc, pool: pool}
}

func (cont *PhoenixAdapter) resolvePool(cc *types.ContractContext, cfg *adapter.CoreConfig, tokenA, tokenB common.Address) (common.Address, error) {
	if info := cont.PoolFor(cc, tokenA, tokenB); info != nil {
		return info.Pool, nil
	}
	is, err := cc.Exec(cc, cfg.Amm, "QueryForPoolByTokenPair", []interface{}{tokenA, tokenB})
	if err != nil {
		if errors.Is(err, external.ErrPoolNotFound) {
			return ZeroAddress, adapter.ErrUnsupportedPair.Wrap(err)
		}
		return ZeroAddress, adapter.External(err)
	}
	pool, err := AddressResult(is, 0)
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	return pool, nil
}

// poolForShare finds the factory pool that issued the share token
func (cont *PhoenixAdapter) poolForShare(cc *types.ContractContext, cfg *adapter.CoreConfig, share common.Address) (common.Address, error) {
	if pool, has := cont.PoolForLp(cc, share); has {
		return pool, nil
	}
	is, err := cc.Exec(cc, cfg.Amm, "QueryPools", nil)
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	pools, _ := is[0].([]common.Address)
	for _, pool := range pools {
		if info, err := cont.client(cc, pool).info(); err == nil && info.AssetLpShare.Address == share {
			return pool, nil
		}
	}
	return ZeroAddress, errors.Wrap(adapter.ErrPoolNotFound, share.String())
}

//////////////////////////////////////////////////
// Swaps
//////////////////////////////////////////////////

func (cont *PhoenixAdapter) swapExactIn(cc *types.ContractContext, amountIn, minOut *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
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
	pc := cont.client(cc, pool)
	if _, err := pc.checkPair(tokenIn, tokenOut); err != nil {
		return nil, err
	}
	if err := cont.Pull(cc, tokenIn, cont.Address(), amountIn); err != nil {
		return nil, err
	}
	out, err := pc.swap(cont.Address(), tokenIn, amountIn, minOut, deadline)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, out); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, amountIn, out, path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return out, nil
}

// swapExactOut pays the simulated offer and forwards the whole return, which
// is at least amountOut
func (cont *PhoenixAdapter) swapExactOut(cc *types.ContractContext, amountOut, maxIn *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
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
	if _, err := pc.checkPair(tokenIn, tokenOut); err != nil {
		return nil, err
	}
	need, err := pc.simulateReverse(tokenOut, amountOut)
	if err != nil {
		return nil, err
	}
	if maxIn.Less(need) {
		return nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "in %v max %v", need.String(), maxIn.String())
	}
	if err := cont.Pull(cc, tokenIn, cont.Address(), need); err != nil {
		return nil, err
	}
	out, err := pc.swap(cont.Address(), tokenIn, need, amountOut, deadline)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, out); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, need, out, path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return need, nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

func (cont *PhoenixAdapter) addLiquidity(cc *types.ContractContext, tokenA, tokenB common.Address, amtA, amtB, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
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
	info, err := pc.checkPair(tokenA, tokenB)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Pull(cc, tokenA, cont.Address(), amtA); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Pull(cc, tokenB, cont.Address(), amtB); err != nil {
		return nil, nil, nil, err
	}

	flip := info.AssetA.Address != tokenA
	desA, minA, desB, minB := amtA, amtAMin, amtB, amtBMin
	if flip {
		desA, minA, desB, minB = amtB, amtBMin, amtA, amtAMin
	}
	usedA, usedB, shares, err := pc.provide(cont.Address(), info, desA, minA, desB, minB, deadline)
	if err != nil {
		return nil, nil, nil, err
	}
	if flip {
		usedA, usedB = usedB, usedA
	}
	if err := cont.Send(cc, tokenA, cc.From(), amtA.Sub(usedA)); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Send(cc, tokenB, cc.From(), amtB.Sub(usedB)); err != nil {
		return nil, nil, nil, err
	}
	share := info.AssetLpShare.Address
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
	return usedA, usedB, shares, nil
}

// removeLiquidity returns the pool's asset a first and asset b second
func (cont *PhoenixAdapter) removeLiquidity(cc *types.ContractContext, lp common.Address, lpAmount, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, error) {
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
	info, err := pc.info()
	if err != nil {
		return nil, nil, err
	}
	if err := cont.Pull(cc, lp, cont.Address(), lpAmount); err != nil {
		return nil, nil, err
	}
	a, b, err := pc.withdraw(cont.Address(), lp, lpAmount, amtAMin, amtBMin, deadline)
	if err != nil {
		return nil, nil, err
	}
	if err := cont.Send(cc, info.AssetA.Address, to, a); err != nil {
		return nil, nil, err
	}
	if err := cont.Send(cc, info.AssetB.Address, to, b); err != nil {
		return nil, nil, err
	}
	cont.EmitRemLp(cc, lp, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

//////////////////////////////////////////////////
// Quotes
//////////////////////////////////////////////////

func (cont *PhoenixAdapter) quoteIn(cc *types.ContractContext, pool common.Address, amountIn *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	pc := cont.client(cc, pool)
	if _, err := pc.checkPair(tokenIn, tokenOut); err != nil {
		return nil, err
	}
	return pc.simulate(tokenIn, amountIn)
}

func (cont *PhoenixAdapter) quoteOut(cc *types.ContractContext, pool common.Address, amountOut *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut); err != nil {
		return nil, err
	}
	pc := cont.client(cc, pool)
	if _, err := pc.checkPair(tokenIn, tokenOut); err != nil {
		return nil, err
	}
	return pc.simulateReverse(tokenOut, amountOut)
}
