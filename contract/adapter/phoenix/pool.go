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

func poolError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, external.ErrSwapMinReceived), errors.Is(err, external.ErrSpreadExceedsLimit),
		errors.Is(err, external.ErrSlippageExceedsLimit), errors.Is(err, external.ErrWithdrawMinNotMet):
		return adapter.ErrMinAmountNotMet.Wrap(err)
	case errors.Is(err, external.ErrInsufficientLiquidity):
		return adapter.ErrInsufficientLiquidity.Wrap(err)
	case errors.Is(err, external.ErrInvalidAsset):
		return adapter.ErrUnsupportedPair.Wrap(err)
	case errors.Is(err, external.ErrDeadlineExceeded):
		return adapter.ErrDeadlinePassed.Wrap(err)
	}
	return adapter.External(err)
}

// poolClient drives a phoenix pool, the adapter is the pool's sender
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

func (p *poolClient) info() (*external.PoolResponse, error) {
	is, err := p.exec("QueryPoolInfo")
	if err != nil {
		return nil, err
	}
	info, ok := is[0].(*external.PoolResponse)
	if !ok {
		return nil, errors.Wrap(adapter.ErrExternalFailure, "pool info")
	}
	return info, nil
}

// checkPair fails unless the pool trades exactly these two tokens
func (p *poolClient) checkPair(tokenA, tokenB common.Address) (*external.PoolResponse, error) {
	info, err := p.info()
	if err != nil {
		return nil, err
	}
	a, b := info.AssetA.Address, info.AssetB.Address
	if !(a == tokenA && b == tokenB) && !(a == tokenB && b == tokenA) {
		return nil, errors.Wrapf(adapter.ErrUnsupportedPair, "pool %v", p.pool.String())
	}
	return info, nil
}

func (p *poolClient) simulate(offer common.Address, am *amount.Amount) (*amount.Amount, error) {
	return p.amount("SimulateSwap", offer, am)
}

func (p *poolClient) simulateReverse(ask common.Address, am *amount.Amount) (*amount.Amount, error) {
	return p.amount("SimulateReverseSwap", ask, am)
}

// swap uses the pool's own spread bound and no fee cap
func (p *poolClient) swap(self, offer common.Address, am, askMin *amount.Amount, deadline uint64) (*amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, offer, "Transfer")
	return p.amount("Swap", self, offer, am, askMin, uint32(0), deadline, uint32(0))
}

// provide pays from the adapter's holdings, amounts are in the pool's a/b order
func (p *poolClient) provide(self common.Address, info *external.PoolResponse, desiredA, minA, desiredB, minB *amount.Amount, deadline uint64) (*amount.Amount, *amount.Amount, *amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, info.AssetA.Address, "Transfer")
	p.cc.AuthorizeAsCurrentContract(p.pool, info.AssetB.Address, "Transfer")
	is, err := p.exec("ProvideLiquidity", self, desiredA, minA, desiredB, minB, uint32(0), deadline)
	if err != nil {
		return nil, nil, nil, err
	}
	list := make([]*amount.Amount, 3)
	for i := range list {
		if list[i], err = AmountResult(is, i); err != nil {
			return nil, nil, nil, adapter.External(err)
		}
	}
	return list[0], list[1], list[2], nil
}

func (p *poolClient) withdraw(self, share common.Address, shares, minA, minB *amount.Amount, deadline uint64) (*amount.Amount, *amount.Amount, error) {
	p.cc.AuthorizeAsCurrentContract(p.pool, share, "Burn")
	is, err := p.exec("WithdrawLiquidity", self, shares, minA, minB, deadline)
	if err != nil {
		return nil, nil, err
	}
	a, err := AmountResult(is, 0)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	b, err := AmountResult(is, 1)
	if err != nil {
		return nil, nil, adapter.External(err)
	}
	return a, b, nil
}
