// Package comet adapts weighted comet pools. Pools are found in the adapter's
// registry first and then through the factory bound at Initialize.
package comet

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

type CometAdapter struct {
	adapter.Base
}

func (cont *CometAdapter) Init(addr common.Address, master common.Address) {
	cont.Bind(addr, master, adapter.Comet)
}

func (cont *CometAdapter) client(cc *types.ContractContext, pool common.Address) *poolClient {
	return &poolClient{cc: cc, pool: pool}
}

// resolvePool returns the pool registered for the pair or the factory's first pool for it
func (cont *CometAdapter) resolvePool(cc *types.ContractContext, cfg *adapter.CoreConfig, tokenA, tokenB common.Address) (common.Address, error) {
	if info := cont.PoolFor(cc, tokenA, tokenB); info != nil {
		return info.Pool, nil
	}
	is, err := cc.Exec(cc, cfg.Amm, "PoolsFor", []interface{}{tokenA, tokenB})
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	if pools, ok := is[0].([]common.Address); ok && len(pools) > 0 {
		return pools[0], nil
	}
	return ZeroAddress, errors.Wrapf(adapter.ErrUnsupportedPair, "%v/%v", tokenA.String(), tokenB.String())
}

func (cont *CometAdapter) isFactoryPool(cc *types.ContractContext, cfg *adapter.CoreConfig, pool common.Address) bool {
	is, err := cc.Exec(cc, cfg.Amm, "IsPool", []interface{}{pool})
	if err != nil || len(is) == 0 {
		return false
	}
	ok, _ := is[0].(bool)
	return ok
}

//////////////////////////////////////////////////
// Swaps
//////////////////////////////////////////////////

func (cont *CometAdapter) swapExactIn(cc *types.ContractContext, amountIn, minOut *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
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

// swapHeld trades funds the adapter already holds and pays to
func (cont *CometAdapter) swapHeld(cc *types.ContractContext, pool, tokenIn, tokenOut common.Address, amountIn, minOut *amount.Amount, to common.Address) (*amount.Amount, error) {
	out, err := cont.client(cc, pool).swapIn(cont.Address(), tokenIn, tokenOut, amountIn, minOut)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, out); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, amountIn, out, []common.Address{tokenIn, tokenOut}, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return out, nil
}

func (cont *CometAdapter) swapExactOut(cc *types.ContractContext, amountOut, maxIn *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
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
	need, err := pc.inGivenOut(tokenIn, tokenOut, amountOut.Int)
	if err != nil {
		return nil, err
	}
	if need.Cmp(maxIn.Int) > 0 {
		return nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "in %v max %v", need.String(), maxIn.String())
	}
	if err := cont.Pull(cc, tokenIn, cont.Address(), ToAmount(need)); err != nil {
		return nil, err
	}
	in, err := pc.swapOut(cont.Address(), tokenIn, tokenOut, ToAmount(Clone(need)), amountOut)
	if err != nil {
		return nil, err
	}
	if err := cont.Send(cc, tokenOut, to, amountOut); err != nil {
		return nil, err
	}
	cont.EmitSwap(cc, in, amountOut, path, to)
	if err := cont.Bump(cc); err != nil {
		return nil, err
	}
	return in, nil
}

//////////////////////////////////////////////////
// Liquidity
//////////////////////////////////////////////////

// ordered returns the amounts of tokenA and tokenB in the pool's token order
func ordered(tokens []common.Address, tokenA common.Address, a, b *big.Int) []*big.Int {
	if tokens[0] == tokenA {
		return []*big.Int{a, b}
	}
	return []*big.Int{b, a}
}

func (cont *CometAdapter) addLiquidity(cc *types.ContractContext, tokenA, tokenB common.Address, amtA, amtB, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
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
	if err := cont.Pull(cc, tokenA, cont.Address(), amtA); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Pull(cc, tokenB, cont.Address(), amtB); err != nil {
		return nil, nil, nil, err
	}
	actualA, actualB, lp, err := cont.joinHeld(cc, pool, tokenA, tokenB, amtA, amtB, to, cc.From())
	if err != nil {
		return nil, nil, nil, err
	}
	if actualA.Less(amtAMin) || actualB.Less(amtBMin) {
		return nil, nil, nil, errors.Wrapf(adapter.ErrMinAmountNotMet, "got %v/%v", actualA.String(), actualB.String())
	}
	return actualA, actualB, lp, nil
}

// joinHeld joins with funds the adapter holds, sends the shares to to and
// returns what the pool left unused to refund
func (cont *CometAdapter) joinHeld(cc *types.ContractContext, pool, tokenA, tokenB common.Address, amtA, amtB *amount.Amount, to, refund common.Address) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	pc := cont.client(cc, pool)
	tokens, err := pc.tokens()
	if err != nil {
		return nil, nil, nil, err
	}
	if !(tokens[0] == tokenA && tokens[1] == tokenB) && !(tokens[0] == tokenB && tokens[1] == tokenA) {
		return nil, nil, nil, errors.Wrapf(adapter.ErrUnsupportedPair, "pool %v", pool.String())
	}
	maxIn := ordered(tokens, tokenA, amtA.Int, amtB.Int)
	poolOut, err := pc.joinAmount(tokens, maxIn)
	if err != nil {
		return nil, nil, nil, err
	}
	if poolOut.Sign() <= 0 {
		return nil, nil, nil, errors.WithStack(adapter.ErrInvalidAmount)
	}
	ins, err := pc.join(cont.Address(), tokens, poolOut, maxIn)
	if err != nil {
		return nil, nil, nil, err
	}
	actualA, actualB := ins[0], ins[1]
	if tokens[0] != tokenA {
		actualA, actualB = ins[1], ins[0]
	}
	if err := cont.Send(cc, tokenA, refund, amtA.Sub(actualA)); err != nil {
		return nil, nil, nil, err
	}
	if err := cont.Send(cc, tokenB, refund, amtB.Sub(actualB)); err != nil {
		return nil, nil, nil, err
	}
	lp := ToAmount(poolOut)
	if err := cont.Send(cc, pool, to, lp); err != nil {
		return nil, nil, nil, err
	}
	cont.EmitAddLp(cc, tokenA, tokenB, pool, to)
	if err := cont.Bump(cc); err != nil {
		return nil, nil, nil, err
	}
	return actualA, actualB, lp, nil
}

// removeLiquidity exits the pool, a is the pool's first token and b its second
func (cont *CometAdapter) removeLiquidity(cc *types.ContractContext, lp common.Address, lpAmount, amtAMin, amtBMin *amount.Amount, to common.Address, deadline uint64) (*amount.Amount, *amount.Amount, error) {
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
	if !cont.isFactoryPool(cc, cfg, lp) {
		if _, has := cont.PoolForLp(cc, lp); !has {
			return nil, nil, errors.Wrap(adapter.ErrPoolNotFound, lp.String())
		}
	}
	held, err := TokenBalance(cc, lp, cc.From())
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	if held.Less(lpAmount) {
		return nil, nil, errors.Wrapf(adapter.ErrInsufficientLpBalance, "has %v want %v", held.String(), lpAmount.String())
	}
	pc := cont.client(cc, lp)
	tokens, err := pc.tokens()
	if err != nil {
		return nil, nil, err
	}
	if err := cont.Pull(cc, lp, cont.Address(), lpAmount); err != nil {
		return nil, nil, err
	}
	outs, err := pc.exit(cont.Address(), lpAmount, []*amount.Amount{amtAMin, amtBMin})
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

// swapInPool trades tokens already transferred to the adapter
func (cont *CometAdapter) swapInPool(cc *types.ContractContext, amtIn, minOut *amount.Amount, tokenIn, tokenOut, pool, to common.Address) (*amount.Amount, error) {
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

// addLiqInPool joins with tokens already transferred to the adapter, leftovers go to to
func (cont *CometAdapter) addLiqInPool(cc *types.ContractContext, tokenA, tokenB common.Address, amountA, amountB *amount.Amount, pool, to common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountA, amountB); err != nil {
		return nil, err
	}
	_, _, lp, err := cont.joinHeld(cc, pool, tokenA, tokenB, amountA, amountB, to, to)
	if err != nil {
		return nil, err
	}
	return lp, nil
}

//////////////////////////////////////////////////
// Quotes
//////////////////////////////////////////////////

func (cont *CometAdapter) quoteIn(cc *types.ContractContext, pool common.Address, amountIn *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	out, err := cont.client(cc, pool).outGivenIn(tokenIn, tokenOut, amountIn.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(out), nil
}

func (cont *CometAdapter) quoteOut(cc *types.ContractContext, pool common.Address, amountOut *amount.Amount, tokenIn, tokenOut common.Address) (*amount.Amount, error) {
	if _, err := cont.Config(cc); err != nil {
		return nil, err
	}
	if err := adapter.CheckAmount(amountOut); err != nil {
		return nil, err
	}
	in, err := cont.client(cc, pool).inGivenOut(tokenIn, tokenOut, amountOut.Int)
	if err != nil {
		return nil, err
	}
	return ToAmount(in), nil
}
