package aqua

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/core/types"
)

func (cont *AquaAdapter) Front() interface{} {
	return &front{
		Front: adapter.NewFront(&cont.Base),
		cont:  cont,
	}
}

var _ adapter.Adapter = (*front)(nil)

type front struct {
	adapter.Front
	cont *AquaAdapter
}

func (f *front) SwapExactIn(cc *types.ContractContext, AmountIn *amount.Amount, MinOut *amount.Amount, Path []common.Address, To common.Address, Deadline uint64) (*amount.Amount, error) {
	return f.cont.swapExactIn(cc, AmountIn, MinOut, Path, To, Deadline)
}

func (f *front) SwapExactOut(cc *types.ContractContext, AmountOut *amount.Amount, MaxIn *amount.Amount, Path []common.Address, To common.Address, Deadline uint64) (*amount.Amount, error) {
	return f.cont.swapExactOut(cc, AmountOut, MaxIn, Path, To, Deadline)
}

func (f *front) AddLiquidity(cc *types.ContractContext, TokenA common.Address, TokenB common.Address, AmtA *amount.Amount, AmtB *amount.Amount, AmtAMin *amount.Amount, AmtBMin *amount.Amount, To common.Address, Deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	return f.cont.addLiquidity(cc, TokenA, TokenB, AmtA, AmtB, AmtAMin, AmtBMin, To, Deadline)
}

func (f *front) RemoveLiquidity(cc *types.ContractContext, LpToken common.Address, LpAmount *amount.Amount, AmtAMin *amount.Amount, AmtBMin *amount.Amount, To common.Address, Deadline uint64) (*amount.Amount, *amount.Amount, error) {
	return f.cont.removeLiquidity(cc, LpToken, LpAmount, AmtAMin, AmtBMin, To, Deadline)
}

func (f *front) QuoteIn(cc *types.ContractContext, Pool common.Address, AmountIn *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error) {
	return f.cont.quoteIn(cc, Pool, AmountIn, TokenIn, TokenOut)
}

func (f *front) QuoteOut(cc *types.ContractContext, Pool common.Address, AmountOut *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*amount.Amount, error) {
	return f.cont.quoteOut(cc, Pool, AmountOut, TokenIn, TokenOut)
}

// SwapInPool trades AmtIn the caller already transferred to the adapter
func (f *front) SwapInPool(cc *types.ContractContext, AmtIn *amount.Amount, MinOut *amount.Amount, TokenIn common.Address, TokenOut common.Address, Pool common.Address, To common.Address) (*amount.Amount, error) {
	return f.cont.swapInPool(cc, AmtIn, MinOut, TokenIn, TokenOut, Pool, To)
}

// AddLiqInPool deposits into Pool amounts the caller already transferred to the adapter
func (f *front) AddLiqInPool(cc *types.ContractContext, TokenA common.Address, TokenB common.Address, AmountA *amount.Amount, AmountB *amount.Amount, Pool common.Address, To common.Address) (*amount.Amount, error) {
	return f.cont.addLiqInPool(cc, TokenA, TokenB, AmountA, AmountB, Pool, To)
}
