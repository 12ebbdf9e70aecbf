package comet

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bmath"
	"github.com/hoops-finance/hoops/contract/adapter"
	external "github.com/hoops-finance/hoops/contract/external/comet"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// JoinScale is the fixed point of the dual asset join ratio
var JoinScale = big.NewInt(1000000000)

// poolError maps a weighted pool failure onto the adapter taxonomy
func poolError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bmath.ErrMaxInRatio):
		return adapter.ErrMaxInRatio.Wrap(err)
	case errors.Is(err, bmath.ErrMaxOutRatio):
		return adapter.ErrMaxOutRatio.Wrap(err)
	case errors.Is(err, external.ErrLimitIn), errors.Is(err, external.ErrLimitOut):
		return adapter.ErrMinAmountNotMet.Wrap(err)
	case errors.Is(err, external.ErrNotBound):
		return adapter.ErrUnsupportedPair.Wrap(err)
	}
	return adapter.External(err)
}

// poolClient reads and drives a weighted pool on behalf of the adapter
type poolClient struct {
	cc   *types.ContractContext
	pool common.Address
}

func (p *poolClient) exec(method string, args ...interface{}) ([]interface{}, error) {
	is, err := p.cc.Exec(p.cc, p.pool, method, args)
	if err != nil {
		return nil, poolError(err)
	}
	return is, nil
}

func (p *poolClient) amount(method string, args ...interface{}) (*big.Int, error) {
	is, err := p.exec(method, args...)
	if err != nil {
		return nil, err
	}
	am, err := AmountResult(is, 0)
	if err != nil {
		return nil, adapter.External(err)
	}
	return am.Int, nil
}

// tokens returns the pool's two tokens, wider pools are not routed
func (p *poolClient) tokens() ([]common.Address, error) {
	is, err := p.exec("GetTokens")
	if err != nil {
		return nil, err
	}
	tokens, ok := is[0].([]common.Address)
	if !ok || len(tokens) != 2 {
		return nil, errors.Wrapf(adapter.ErrUnsupportedPair, "pool %v", p.pool.String())
	}
	return tokens, nil
}

func (p *poolClient) balance(token common.Address) (*big.Int, error) {
	return p.amount("GetBalance", token)
}

func (p *poolClient) weight(token common.Address) (*big.Int, error) {
	return p.amount("GetDenormalizedWeight", token)
}

func (p *poolClient) swapFee() (*big.Int, error) {
	return p.amount("GetSwapFee")
}

func (p *poolClient) totalSupply() (*big.Int, error) {
	return p.amount("TotalSupply")
}

type swapState struct {
	balanceIn, weightIn, balanceOut, weightOut, fee *big.Int
}

func (p *poolClient) swapState(tokenIn, tokenOut common.Address) (*swapState, error) {
	s := &swapState{}
	var err error
	if s.balanceIn, err = p.balance(tokenIn); err != nil {
		return nil, err
	}
	if s.weightIn, err = p.weight(tokenIn); err != nil {
		return nil, err
	}
	if s.balanceOut, err = p.balance(tokenOut); err != nil {
		return nil, err
	}
	if s.weightOut, err = p.weight(tokenOut); err != nil {
		return nil, err
	}
	if s.fee, err = p.swapFee(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *poolClient) outGivenIn(tokenIn, tokenOut common.Address, in *big.Int) (*big.Int, error) {
	s, err := p.swapState(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	out, err := bmath.CalcOutGivenIn(s.balanceIn, s.weightIn, s.balanceOut, s.weightOut, in, s.fee)
	if err != nil {
		return nil, poolError(err)
	}
	return out, nil
}

func (p *poolClient) inGivenOut(tokenIn, tokenOut common.Address, out *big.Int) (*big.Int, error) {
	s, err := p.swapState(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	in, err := bmath.CalcInGivenOut(s.balanceIn, s.weightIn, s.balanceOut, s.weightOut, out, s.fee)
	if err != nil {
		return nil, poolError(err)
	}
	return in, nil
}

// joinAmount is total supply times the smallest amt_i/bal_i, both floored at JoinScale
func (p *poolClient) joinAmount(tokens []common.Address, amounts []*big.Int) (*big.Int, error) {
	total, err := p.totalSupply()
	if err != nil {
		return nil, err
	}
	var minRatio *big.Int
	for i, t := range tokens {
		bal, err := p.balance(t)
		if err != nil {
			return nil, err
		}
		ratio := big.NewInt(0)
		if bal.Sign() > 0 {
			ratio = MulDiv(amounts[i], JoinScale, bal)
		}
		if minRatio == nil || ratio.Cmp(minRatio) < 0 {
			minRatio = ratio
		}
	}
	return MulDiv(total, minRatio, JoinScale), nil
}

// swapIn swaps tokens the adapter already holds, the output stays with the adapter
func (p *poolClient) swapIn(self, tokenIn, tokenOut common.Address, in, minOut *amount.Amount) (*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, tokenIn, "Transfer")
	is, err := p.exec("SwapExactAmountIn", self, tokenIn, in, tokenOut, minOut, nil)
	if err != nil {
		return nil, err
	}
	out, err := AmountResult(is, 0)
	if err != nil {
		return nil, adapter.External(err)
	}
	return out, nil
}

func (p *poolClient) swapOut(self, tokenIn, tokenOut common.Address, maxIn, out *amount.Amount) (*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, tokenIn, "Transfer")
	is, err := p.exec("SwapExactAmountOut", self, tokenIn, maxIn, tokenOut, out, nil)
	if err != nil {
		return nil, err
	}
	in, err := AmountResult(is, 0)
	if err != nil {
		return nil, adapter.External(err)
	}
	return in, nil
}

// join mints poolOut shares to the adapter paying from its holdings
func (p *poolClient) join(self common.Address, tokens []common.Address, poolOut *big.Int, maxIn []*big.Int) ([]*amount.Amount, error) {
	for _, t := range tokens {
		p.cc.AuthorizeAsCurrentContract(p.pool, t, "Transfer")
	}
	is, err := p.exec("JoinPool", self, ToAmount(poolOut), ToAmounts(maxIn))
	if err != nil {
		return nil, err
	}
	ins, ok := is[0].([]*amount.Amount)
	if !ok || len(ins) != len(tokens) {
		return nil, errors.Wrap(adapter.ErrExternalFailure, "join result")
	}
	return ins, nil
}

func (p *poolClient) exit(self common.Address, lpAmount *amount.Amount, minOut []*amount.Amount) ([]*amount.Amount, error) {
	is, err := p.exec("ExitPool", self, lpAmount, minOut)
	if err != nil {
		return nil, err
	}
	outs, ok := is[0].([]*amount.Amount)
	if !ok || len(outs) != 2 {
		return nil, errors.Wrap(adapter.ErrExternalFailure, "exit result")
	}
	return outs, nil
}
