package aqua

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/swapmath"
	"github.com/hoops-finance/hoops/contract/adapter"
	external "github.com/hoops-finance/hoops/contract/external/aqua"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

func poolError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, external.ErrOutMinNotSatisfied), errors.Is(err, external.ErrInMaxNotSatisfied),
		errors.Is(err, external.ErrMinSharesNotReached), errors.Is(err, external.ErrWithdrawMinNotReached):
		return adapter.ErrMinAmountNotMet.Wrap(err)
	case errors.Is(err, swapmath.ErrInsufficientLiquidity):
		return adapter.ErrInsufficientLiquidity.Wrap(err)
	}
	return adapter.External(err)
}

// poolClient drives an aqua pool, the adapter is the pool's user
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

func (p *poolClient) amount(method string, args ...interface{}) (*amount.Amount, error) {
	is, err := p.exec(method, args...)
	if err != nil {
		return nil, err
	}
	am, err := AmountResult(is, 0)
	if err != nil {
		return nil, adapter.External(err)
	}
	return am, nil
}

func (p *poolClient) amounts(method string, args ...interface{}) ([]*amount.Amount, error) {
	is, err := p.exec(method, args...)
	if err != nil {
		return nil, err
	}
	list, ok := is[0].([]*amount.Amount)
	if !ok || len(list) != 2 {
		return nil, errors.Wrapf(adapter.ErrExternalFailure, "%v result", method)
	}
	return list, nil
}

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

// indices returns the positions of tokenIn and tokenOut in the pool
func (p *poolClient) indices(tokenIn, tokenOut common.Address) (uint32, uint32, error) {
	tokens, err := p.tokens()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case tokens[0] == tokenIn && tokens[1] == tokenOut:
		return 0, 1, nil
	case tokens[1] == tokenIn && tokens[0] == tokenOut:
		return 1, 0, nil
	}
	return 0, 0, errors.Wrapf(adapter.ErrUnsupportedPair, "pool %v", p.pool.String())
}

func (p *poolClient) reserves() ([]*big.Int, error) {
	rs, err := p.amounts("GetReserves")
	if err != nil {
		return nil, err
	}
	return ToBigInts(rs), nil
}

func (p *poolClient) totalShares() (*big.Int, error) {
	total, err := p.amount("GetTotalShares")
	if err != nil {
		return nil, err
	}
	return total.Int, nil
}

func (p *poolClient) shareID() (common.Address, error) {
	is, err := p.exec("ShareID")
	if err != nil {
		return ZeroAddress, err
	}
	share, err := AddressResult(is, 0)
	if err != nil {
		return ZeroAddress, adapter.External(err)
	}
	return share, nil
}

func (p *poolClient) estimate(in, out uint32, dx *amount.Amount) (*amount.Amount, error) {
	return p.amount("EstimateSwap", in, out, dx)
}

func (p *poolClient) estimateStrict(in, out uint32, dy *amount.Amount) (*amount.Amount, error) {
	return p.amount("EstimateSwapStrictReceive", in, out, dy)
}

func (p *poolClient) swap(self, tokenIn common.Address, in, out uint32, dx, outMin *amount.Amount) (*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, tokenIn, "Transfer")
	return p.amount("Swap", self, in, out, dx, outMin)
}

func (p *poolClient) swapStrict(self, tokenIn common.Address, in, out uint32, dy, inMax *amount.Amount) (*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, tokenIn, "Transfer")
	return p.amount("SwapStrictReceive", self, in, out, dy, inMax)
}

// deposit pays from the adapter's holdings, desired is in pool token order
func (p *poolClient) deposit(self common.Address, tokens []common.Address, desired []*amount.Amount, minShares *amount.Amount) ([]*amount.Amount, *amount.Amount, error) {
	for _, t := range tokens {
		p.cc.AuthorizeAsCurrentContract(p.pool, t, "Transfer")
	}
	is, err := p.exec("Deposit", self, desired, minShares)
	if err != nil {
		return nil, nil, err
	}
	amounts, ok := is[0].([]*amount.Amount)
	if !ok || len(amounts) != 2 {
		return nil, nil, errors.Wrap(adapter.ErrExternalFailure, "deposit result")
	}
	shares, err := AmountResult(is, 1)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	return amounts, shares, nil
}

func (p *poolClient) withdraw(self, share common.Address, shares *amount.Amount, mins []*amount.Amount) ([]*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, share, "Burn")
	return p.amounts("Withdraw", self, shares, mins)
}

// depositAmounts keeps the pool ratio, an empty pool takes the desired amounts
func depositAmounts(desiredA, desiredB, minA, minB, reserveA, reserveB *big.Int) (*big.Int, *big.Int, error) {
	a, b, err := swapmath.OptimalDeposit(desiredA, desiredB, minA, minB, reserveA, reserveB)
	if err != nil {
		return nil, nil, errors.Wrap(adapter.ErrInvalidAmount, err.Error())
	}
	return a, b, nil
}

// expectedShares is the smaller of amt*shares/(reserve+amt) over both sides
func expectedShares(amtA, amtB, reserveA, reserveB, totalShares *big.Int) *big.Int {
	if amtA.Sign() == 0 || amtB.Sign() == 0 || totalShares.Sign() == 0 {
		return big.NewInt(0)
	}
	a := MulDiv(amtA, totalShares, Add(reserveA, amtA))
	b := MulDiv(amtB, totalShares, Add(reserveB, amtB))
	return Min(a, b)
}
